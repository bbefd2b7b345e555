package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/lifelens-sentiment/config"
	"github.com/spacesedan/lifelens-sentiment/internal/clients"
	"github.com/spacesedan/lifelens-sentiment/internal/clients/kafka_client"
	"github.com/spacesedan/lifelens-sentiment/internal/events"
	"github.com/spacesedan/lifelens-sentiment/internal/logging"
	"github.com/spacesedan/lifelens-sentiment/internal/metrics"
	"github.com/spacesedan/lifelens-sentiment/internal/monitoring"
	"github.com/spacesedan/lifelens-sentiment/internal/sentiment"
	"github.com/spacesedan/lifelens-sentiment/internal/server"
)

func main() {
	env := config.Environment()
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)
	slog.Info("[Main] Starting sentiment service",
		slog.String("env", env),
		slog.String("backend", cfg.ModelBackend),
		slog.String("model", cfg.ModelID()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	inference := metrics.NewInferenceMetrics(registry)

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	classifier, closeClassifier := loadClassifier(cfg)
	if closeClassifier != nil {
		closers = append(closers, closeClassifier)
	}
	inference.SetModelLoaded(classifier != nil)

	if classifier != nil && cfg.CacheEnabled() {
		cache, err := clients.NewValkeyClient(ctx, clients.ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			slog.Warn("[Main] Prediction cache disabled", slog.String("error", err.Error()))
		} else {
			closers = append(closers, cache.Close)
			healthy := &atomic.Bool{}
			healthy.Store(true)
			go monitoring.MonitorHealth(ctx, "valkey", cache, healthy, monitoring.HEALTHCHECK_INTERVAL)
			classifier = sentiment.NewCachedClassifier(classifier, cache, cfg.CacheNamespace(), healthy, inference)
		}
	}

	opts := []sentiment.Option{sentiment.WithObserver(inference)}
	if cfg.EventsEnabled() {
		kafkaCfg := kafka_client.NewKafkaConfig(cfg.KafkaBroker, cfg.KafkaResultsTopic)
		kafkaCfg.InitTimeout = cfg.KafkaInitTimeout
		producer, err := kafka_client.NewProducer(ctx, kafkaCfg)
		if err != nil {
			slog.Warn("[Main] Result events disabled", slog.String("error", err.Error()))
		} else {
			closers = append(closers, producer.Close)
			publisher := events.NewPublisher(producer, events.BATCH_SIZE, events.BATCH_TIMEOUT)
			publisher.Start(context.WithoutCancel(ctx))
			closers = append(closers, func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if err := publisher.Close(flushCtx); err != nil {
					slog.Warn("[Main] Event publisher did not flush", slog.String("error", err.Error()))
				}
			})
			opts = append(opts, sentiment.WithPublisher(publisher))
		}
	}

	analyzer := sentiment.NewAnalyzer(classifier, cfg.ModelID(), opts...)

	srv := server.NewServer(server.Options{
		Addr:             cfg.Addr(),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Registry:         registry,
	}, analyzer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("[Main] Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Server shutdown error", slog.String("error", err.Error()))
	}
	slog.Info("[Main] Stopped")
}

// loadClassifier builds the configured backend. A failure is logged and
// reported as a nil classifier so the service starts without a model.
func loadClassifier(cfg *config.Config) (sentiment.Classifier, func()) {
	switch cfg.ModelBackend {
	case config.BackendVader:
		slog.Info("[Main] Using VADER lexicon backend")
		return sentiment.NewVaderClassifier(), nil
	default:
		client, err := clients.NewHugotClient(clients.HugotConfig{
			Repo:     cfg.ModelRepo,
			ModelDir: cfg.ModelDir,
		})
		if err != nil {
			slog.Error("[Main] Failed to load sentiment model", slog.String("error", err.Error()))
			return nil, nil
		}
		slog.Info("[Main] Sentiment analysis model loaded successfully",
			slog.String("model", cfg.ModelName))
		return client, func() {
			if err := client.Close(); err != nil {
				slog.Warn("[Main] Failed to destroy hugot session", slog.String("error", err.Error()))
			}
		}
	}
}
