package server

import (
	"github.com/labstack/echo/v4"
	"github.com/spacesedan/lifelens-sentiment/internal/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/model/info", s.handleModelInfo)

	s.echo.POST("/analyze", s.handleAnalyze)
	s.echo.POST("/analyze/batch", s.handleAnalyzeBatch)

	if s.registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
	}
}
