package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

// InferenceMetrics tracks model calls, produced labels and the prediction cache.
type InferenceMetrics struct {
	Duration         prometheus.Histogram
	Texts            prometheus.Counter
	Failures         prometheus.Counter
	Predictions      *prometheus.CounterVec
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	ModelLoaded      prometheus.Gauge
}

func NewInferenceMetrics(reg prometheus.Registerer) *InferenceMetrics {
	m := &InferenceMetrics{
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "inference",
			Name:      "duration_seconds",
			Help:      "Duration of classifier calls in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		Texts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inference",
			Name:      "texts_total",
			Help:      "Total number of texts sent to the classifier.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inference",
			Name:      "failures_total",
			Help:      "Total number of failed classifier calls.",
		}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of results by label.",
		}, []string{"label"}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Predictions served from the cache.",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Predictions not found in the cache.",
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "1 when the classification model is loaded.",
		}),
	}

	reg.MustRegister(m.Duration, m.Texts, m.Failures, m.Predictions, m.CacheHitsTotal, m.CacheMissesTotal, m.ModelLoaded)
	return m
}

func (m *InferenceMetrics) ObserveInference(elapsed time.Duration, texts int, err error) {
	m.Duration.Observe(elapsed.Seconds())
	m.Texts.Add(float64(texts))
	if err != nil {
		m.Failures.Inc()
	}
}

func (m *InferenceMetrics) ObserveResult(result models.SentimentResult) {
	m.Predictions.WithLabelValues(result.Label).Inc()
}

func (m *InferenceMetrics) CacheHits(n int) {
	m.CacheHitsTotal.Add(float64(n))
}

func (m *InferenceMetrics) CacheMisses(n int) {
	m.CacheMissesTotal.Add(float64(n))
}

func (m *InferenceMetrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.ModelLoaded.Set(1)
		return
	}
	m.ModelLoaded.Set(0)
}
