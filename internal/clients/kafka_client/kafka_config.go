package kafka_client

import "time"

type KafkaConfig struct {
	Broker          string
	Topic           string
	TransactionalID string
	// InitTimeout bounds InitTransactions. An unreachable broker otherwise blocks forever.
	InitTimeout time.Duration
}

func NewKafkaConfig(broker, topic string) KafkaConfig {
	if topic == "" {
		topic = KAFKA_TOPIC_SENTIMENT_RESULTS
	}
	return KafkaConfig{
		Broker:          broker,
		Topic:           topic,
		TransactionalID: TRANSACTIONAL_ID,
		InitTimeout:     INIT_TIMEOUT,
	}
}
