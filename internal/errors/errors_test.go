package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", ValidationError("bad"), http.StatusBadRequest},
		{"unavailable", UnavailableError("Model not loaded"), http.StatusServiceUnavailable},
		{"internal", InternalError("boom", errors.New("cause")), http.StatusInternalServerError},
		{"unknown type", &Error{Type: "other"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	plain := AsStructuredError(errors.New("disk on fire"))
	assert.Equal(t, TypeInternal, plain.Type)
	assert.Equal(t, "internal server error", plain.Message)

	validation := ValidationError("Text cannot be empty")
	wrapped := fmt.Errorf("handler: %w", validation)
	assert.Same(t, validation, AsStructuredError(wrapped))
	assert.True(t, IsType(wrapped, TypeValidation))
	assert.False(t, IsType(wrapped, TypeInternal))
}

func TestError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("onnx failure")
	err := InternalError("Failed to analyze sentiment", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal: Failed to analyze sentiment: onnx failure", err.Error())
	assert.Equal(t, "validation: bad", ValidationError("bad").Error())
}

func TestMiddleware_HidesCause(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_errors_total"}, []string{"type"})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(counter)(func(echo.Context) error {
		return InternalError("Failed to analyze sentiment", errors.New("secret stack trace")).
			WithContext("texts", 1)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Failed to analyze sentiment","type":"internal"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("internal")))
}

func TestMiddleware_PassesEchoErrors(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_errors_total"}, []string{"type"})
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	handler := Middleware(counter)(func(echo.Context) error {
		return echo.ErrNotFound
	})

	err := handler(c)
	assert.ErrorIs(t, err, echo.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("validation")))
}
