package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

// PredictionCache stores raw predictions by key. Implementations report a miss
// as ok == false with a nil error.
type PredictionCache interface {
	GetPredictions(ctx context.Context, keys []string) (map[string]models.RawPrediction, error)
	SetPredictions(ctx context.Context, preds map[string]models.RawPrediction) error
}

// CacheStats is notified of hits and misses. It may be nil.
type CacheStats interface {
	CacheHits(n int)
	CacheMisses(n int)
}

// CachedClassifier serves repeated texts from a PredictionCache and only sends
// misses to the wrapped classifier. Cache failures fall through to inference.
type CachedClassifier struct {
	inner     Classifier
	cache     PredictionCache
	namespace string
	healthy   *atomic.Bool
	stats     CacheStats
}

// NewCachedClassifier wraps inner. Keys are prefixed with namespace, one per
// backend and model. While healthy reports false the cache is skipped.
func NewCachedClassifier(inner Classifier, cache PredictionCache, namespace string, healthy *atomic.Bool, stats CacheStats) *CachedClassifier {
	if healthy == nil {
		healthy = &atomic.Bool{}
		healthy.Store(true)
	}
	return &CachedClassifier{
		inner:     inner,
		cache:     cache,
		namespace: namespace,
		healthy:   healthy,
		stats:     stats,
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, texts []string) ([]models.RawPrediction, error) {
	if !c.healthy.Load() {
		return c.inner.Classify(ctx, texts)
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = CacheKey(c.namespace, text)
	}

	cached, err := c.cache.GetPredictions(ctx, keys)
	if err != nil {
		slog.Warn("[CachedClassifier] Cache lookup failed, running inference",
			slog.String("error", err.Error()))
		cached = nil
	}

	preds := make([]models.RawPrediction, len(texts))
	var missIdx []int
	var missTexts []string
	for i, key := range keys {
		if pred, ok := cached[key]; ok {
			preds[i] = pred
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}

	if c.stats != nil {
		c.stats.CacheHits(len(texts) - len(missIdx))
		c.stats.CacheMisses(len(missIdx))
	}

	if len(missTexts) == 0 {
		return preds, nil
	}

	fresh, err := c.inner.Classify(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("classifier returned %d predictions for %d texts", len(fresh), len(missTexts))
	}

	store := make(map[string]models.RawPrediction, len(fresh))
	for j, pred := range fresh {
		preds[missIdx[j]] = pred
		store[keys[missIdx[j]]] = pred
	}

	if err := c.cache.SetPredictions(ctx, store); err != nil {
		slog.Warn("[CachedClassifier] Failed to store predictions",
			slog.Int("count", len(store)),
			slog.String("error", err.Error()))
	}

	return preds, nil
}

// CacheKey derives the cache key for a model input within a namespace.
func CacheKey(namespace, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sentiment:prediction:" + namespace + ":" + hex.EncodeToString(sum[:])
}
