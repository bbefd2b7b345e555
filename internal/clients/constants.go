package clients

import "time"

const (
	MAX_RETRIES   = 3
	RETRY_BACKOFF = 250 * time.Millisecond
)
