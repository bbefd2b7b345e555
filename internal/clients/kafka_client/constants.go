package kafka_client

import "time"

const (
	KAFKA_TOPIC_SENTIMENT_RESULTS = "sentiment-results" // one message per analyzed text
	TRANSACTIONAL_ID              = "lifelens-sentiment-producer-1"
	FLUSH_TIMEOUT_MS              = 5000
	INIT_TIMEOUT                  = 10 * time.Second
)
