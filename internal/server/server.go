// Package server exposes the sentiment analyzer over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/lifelens-sentiment/internal/metrics"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

type analyzer interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
	AnalyzeBatch(ctx context.Context, texts []string) (models.BatchSentimentResponse, error)
	ModelLoaded() bool
	ModelInfo() models.ModelInfo
}

type Options struct {
	Addr string
	// CORSAllowOrigins defaults to every origin.
	CORSAllowOrigins []string
	// Registry is where HTTP metrics are registered and served from. Optional.
	Registry *prometheus.Registry
}

type Server struct {
	echo     *echo.Echo
	addr     string
	analyzer analyzer
	metrics  *metrics.HTTPMetrics
	registry *prometheus.Registry
}

func NewServer(opts Options, a analyzer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:     e,
		addr:     opts.Addr,
		analyzer: a,
		registry: opts.Registry,
	}
	if srv.registry != nil {
		srv.metrics = metrics.NewHTTPMetrics(srv.registry)
	}

	srv.registerMiddleware(opts.CORSAllowOrigins)
	srv.registerRoutes()
	return srv
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	slog.Info("[Server] Listening", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("[Server] Shutting down")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
