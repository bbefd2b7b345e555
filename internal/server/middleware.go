package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	apperrors "github.com/spacesedan/lifelens-sentiment/internal/errors"
)

func (s *Server) registerMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var errorCounter *prometheus.CounterVec
	if s.metrics != nil {
		errorCounter = s.metrics.ErrorsTotal
		s.echo.Use(s.metrics.Middleware())
	}

	s.echo.Use(requestLogger())
	// Wide open by default. Deployers narrow it with CORS_ALLOW_ORIGINS.
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowCredentials:                         true,
		UnsafeWildcardOriginWithAllowCredentials: true,
	}))
	s.echo.Use(apperrors.Middleware(errorCounter))
	// Innermost so a recovered panic is rendered and counted like any other internal error.
	s.echo.Use(recoverer())
}

func recoverer() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			slog.Error("[HTTP] Recovered from panic",
				slog.String("path", c.Request().URL.Path),
				slog.String("error", err.Error()),
				slog.String("stack", string(stack)))
			return err
		},
	})
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("[HTTP] request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("addr", v.RemoteIP),
				slog.Duration("duration", v.Latency))
			return nil
		},
	})
}
