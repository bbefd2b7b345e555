package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

// Pinger is a dependency that can report its own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitorHealth pings dep every interval and stores the outcome in healthy until
// ctx is cancelled. Transitions are logged once.
func MonitorHealth(ctx context.Context, name string, dep Pinger, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			err := dep.Ping(checkCtx)
			cancel()

			isHealthy := err == nil
			was := healthy.Swap(isHealthy)
			switch {
			case was && !isHealthy:
				slog.Warn("[HealthCheck] Dependency is unhealthy",
					slog.String("dependency", name),
					slog.String("error", err.Error()))
			case !was && isHealthy:
				slog.Info("[HealthCheck] Dependency recovered",
					slog.String("dependency", name))
			}
		}
	}
}
