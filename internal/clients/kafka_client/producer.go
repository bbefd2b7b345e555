package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

// Producer publishes result batches to a single topic, one transaction per batch.
type Producer struct {
	producer *kafka.Producer
	topic    string
}

func NewProducer(ctx context.Context, cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionalID,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	timeout := cfg.InitTimeout
	if timeout <= 0 {
		timeout = INIT_TIMEOUT
	}
	initCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.InitTransactions(initCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, topic: cfg.Topic}, nil
}

// Send writes every event of the batch inside one transaction, keyed by event id.
func (p *Producer) Send(ctx context.Context, batch []models.SentimentEvent) error {
	if err := p.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	for _, event := range batch {
		value, err := json.Marshal(event)
		if err != nil {
			return p.abort(ctx, fmt.Errorf("failed to marshal event: %w", err))
		}

		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
			Key:            []byte(event.EventID),
			Value:          value,
			Headers:        []kafka.Header{{Key: "label", Value: []byte(event.Label)}},
		}
		if err := p.producer.Produce(msg, nil); err != nil {
			return p.abort(ctx, fmt.Errorf("failed to produce event: %w", err))
		}
	}

	if err := p.producer.CommitTransaction(ctx); err != nil {
		return p.abort(ctx, fmt.Errorf("failed to commit transaction: %w", err))
	}

	slog.Info("[KafkaClient] Published sentiment results transactionally",
		slog.String("topic", p.topic),
		slog.Int("count", len(batch)))
	return nil
}

func (p *Producer) abort(ctx context.Context, cause error) error {
	if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
		return fmt.Errorf("[KafkaClient] failed to abort transaction after %v: %w", cause, abortErr)
	}
	return fmt.Errorf("[KafkaClient] %w", cause)
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
