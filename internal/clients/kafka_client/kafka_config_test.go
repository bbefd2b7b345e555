package kafka_client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaConfig(t *testing.T) {
	cfg := NewKafkaConfig("localhost:29092", "")
	assert.Equal(t, "localhost:29092", cfg.Broker)
	assert.Equal(t, KAFKA_TOPIC_SENTIMENT_RESULTS, cfg.Topic)
	assert.Equal(t, TRANSACTIONAL_ID, cfg.TransactionalID)
	assert.Equal(t, INIT_TIMEOUT, cfg.InitTimeout)

	assert.Equal(t, "custom", NewKafkaConfig("b", "custom").Topic)
}

func TestNewProducer_UnreachableBrokerTimesOut(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the init timeout")
	}

	cfg := NewKafkaConfig("127.0.0.1:1", "")
	cfg.InitTimeout = 2 * time.Second

	type result struct {
		producer *Producer
		err      error
	}
	done := make(chan result, 1)
	go func() {
		p, err := NewProducer(context.Background(), cfg)
		done <- result{p, err}
	}()

	select {
	case res := <-done:
		require.Error(t, res.err)
		assert.Nil(t, res.producer)
	case <-time.After(20 * time.Second):
		t.Fatal("NewProducer did not return with an unreachable broker")
	}
}
