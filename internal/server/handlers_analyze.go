package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/spacesedan/lifelens-sentiment/internal/errors"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

func (s *Server) handleAnalyze(c echo.Context) error {
	var req models.SentimentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Invalid request body")
	}

	result, err := s.analyzer.Analyze(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalyzeBatch(c echo.Context) error {
	var req models.BatchSentimentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Invalid request body")
	}

	resp, err := s.analyzer.AnalyzeBatch(c.Request().Context(), req.Texts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
