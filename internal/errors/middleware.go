package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Middleware converts errors returned by handlers into JSON responses. The
// cause of internal errors is logged and never written to the response.
// counter may be nil.
func Middleware(counter *prometheus.CounterVec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				structured := fromHTTPError(httpErr)
				if counter != nil {
					counter.WithLabelValues(string(structured.Type)).Inc()
				}
				return err
			}

			structured := AsStructuredError(err)
			if counter != nil {
				counter.WithLabelValues(string(structured.Type)).Inc()
			}
			logError(c, structured)

			if err := c.JSON(structured.HTTPStatus(), structured.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(c echo.Context, err *Error) {
	attrs := []any{
		slog.String("error_type", string(err.Type)),
		slog.String("message", err.Message),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
		slog.Int("status", err.HTTPStatus()),
	}
	for k, v := range err.Context {
		attrs = append(attrs, slog.Any(k, v))
	}

	switch err.Type {
	case TypeValidation:
		slog.Info("[HTTP] Rejected request", attrs...)
	case TypeUnavailable:
		slog.Warn("[HTTP] Service unavailable", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, slog.String("cause", err.Cause.Error()))
		}
		slog.Error("[HTTP] Request failed", attrs...)
	}
}

// fromHTTPError classifies echo's own errors (404, 405, bind failures) for the counter.
func fromHTTPError(httpErr *echo.HTTPError) *Error {
	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok {
		message = msg
	}

	switch {
	case httpErr.Code == http.StatusServiceUnavailable:
		return UnavailableError(message)
	case httpErr.Code >= 400 && httpErr.Code < 500:
		return ValidationError(message)
	default:
		return InternalError(message, httpErr)
	}
}
