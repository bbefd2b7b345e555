package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferenceMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInferenceMetrics(reg)

	m.ObserveInference(20*time.Millisecond, 3, nil)
	m.ObserveInference(time.Millisecond, 1, errors.New("boom"))
	m.ObserveResult(models.SentimentResult{Label: models.LabelNeutral})
	m.ObserveResult(models.SentimentResult{Label: models.LabelNeutral})
	m.CacheHits(2)
	m.CacheMisses(5)
	m.SetModelLoaded(true)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.Texts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("neutral")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CacheMissesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelLoaded))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))

	m.SetModelLoaded(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ModelLoaded))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.POST("/analyze", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/analyze", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, r)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/analyze", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	NewInferenceMetrics(reg).SetModelLoaded(true)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentiment_model_loaded 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
