// Package events forwards analysis results to a message broker in batches.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spacesedan/lifelens-sentiment/internal/models"
	"github.com/spacesedan/lifelens-sentiment/internal/utils"
)

const (
	BATCH_SIZE    = 50
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 3
	RETRY_DELAY   = 2 * time.Second
	SEND_TIMEOUT  = 15 * time.Second

	// MAX_BUFFERED_BATCHES caps the backlog kept while the sink is slow or down.
	MAX_BUFFERED_BATCHES = 20
)

// Sink delivers one batch of events.
type Sink interface {
	Send(ctx context.Context, batch []models.SentimentEvent) error
}

// Publisher buffers events and hands them to a Sink when the buffer fills
// up, when the flush interval elapses, and on Close. Publish never blocks on the sink;
// once MAX_BUFFERED_BATCHES batches are waiting the oldest events are dropped.
type Publisher struct {
	sink        Sink
	buffer      *utils.BatchBuffer[models.SentimentEvent]
	interval    time.Duration
	retryDelay  time.Duration
	sendTimeout time.Duration
	dropped     atomic.Uint64

	flushCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func NewPublisher(sink Sink, batchSize int, interval time.Duration) *Publisher {
	return &Publisher{
		sink:        sink,
		buffer:      utils.NewBoundedBatchBuffer[models.SentimentEvent](batchSize, batchSize*MAX_BUFFERED_BATCHES),
		interval:    interval,
		retryDelay:  RETRY_DELAY,
		sendTimeout: SEND_TIMEOUT,
		flushCh:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs the flush loop until ctx is cancelled or Close is called.
func (p *Publisher) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Publisher) Publish(events ...models.SentimentEvent) {
	if len(events) == 0 {
		return
	}
	size, dropped := p.buffer.Add(events...)
	if dropped > 0 {
		total := p.dropped.Add(uint64(dropped))
		slog.Warn("[EventPublisher] Buffer full, dropped oldest events",
			slog.Int("dropped", dropped),
			slog.Uint64("dropped_total", total),
			slog.Int("buffered", size))
	}
	if p.buffer.Full() {
		select {
		case p.flushCh <- struct{}{}:
		default:
		}
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close stops the loop and flushes what is left. It waits for the final flush
// or for ctx to expire.
func (p *Publisher) Close(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stopCh) })

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) run(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("[EventPublisher] Started",
		slog.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[EventPublisher] Stopping publisher...")
			p.flush(context.Background())
			return
		case <-p.stopCh:
			p.flush(context.Background())
			return
		case <-ticker.C:
			p.flush(ctx)
		case <-p.flushCh:
			p.flush(ctx)
		}
	}
}

func (p *Publisher) flush(ctx context.Context) {
	batch := p.buffer.GetAndClear()
	if len(batch) == 0 {
		return
	}

	var err error
	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		err = p.send(ctx, batch)
		if err == nil {
			slog.Debug("[EventPublisher] Batch published",
				slog.Int("batch_size", len(batch)))
			return
		}
		slog.Warn("[EventPublisher] Batch publishing failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
		if attempt < MAX_RETRIES-1 {
			time.Sleep(p.retryDelay)
		}
	}

	slog.Error("[EventPublisher] Dropping batch after retries",
		slog.Int("batch_size", len(batch)),
		slog.String("error", err.Error()))
}

func (p *Publisher) send(ctx context.Context, batch []models.SentimentEvent) error {
	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()
	return p.sink.Send(sendCtx, batch)
}
