package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

// handleHealth always answers 200; a missing model is reported, not failed.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: s.analyzer.ModelLoaded(),
	})
}

func (s *Server) handleModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, s.analyzer.ModelInfo())
}
