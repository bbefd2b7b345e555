package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/spacesedan/lifelens-sentiment/internal/errors"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

const (
	// MaxBatchSize is the largest number of texts accepted by AnalyzeBatch.
	MaxBatchSize = 100
	// ModelType is the task name reported by /model/info.
	ModelType = "sentiment-analysis"
)

// Labels lists the labels a result can carry. Each call returns a new slice.
func Labels() []string {
	return []string{models.LabelPositive, models.LabelNegative, models.LabelNeutral}
}

// Classifier runs the binary model. It returns one prediction per input text, in order.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]models.RawPrediction, error)
}

// Publisher receives a copy of every result. Publish must not block on I/O.
type Publisher interface {
	Publish(events ...models.SentimentEvent)
}

// Observer records inference outcomes, typically as metrics.
type Observer interface {
	ObserveInference(elapsed time.Duration, texts int, err error)
	ObserveResult(result models.SentimentResult)
}

type Analyzer struct {
	classifier Classifier
	modelName  string
	publisher  Publisher
	observer   Observer
	now        func() time.Time
}

type Option func(*Analyzer)

func WithPublisher(p Publisher) Option {
	return func(a *Analyzer) { a.publisher = p }
}

func WithObserver(o Observer) Option {
	return func(a *Analyzer) { a.observer = o }
}

// NewAnalyzer wraps classifier. A nil classifier means the model failed to load;
// every analysis call then returns an unavailable error.
func NewAnalyzer(classifier Classifier, modelName string, opts ...Option) *Analyzer {
	a := &Analyzer{
		classifier: classifier,
		modelName:  modelName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) ModelLoaded() bool {
	return a.classifier != nil
}

func (a *Analyzer) ModelInfo() models.ModelInfo {
	return models.ModelInfo{
		ModelName: a.modelName,
		ModelType: ModelType,
		Labels:    Labels(),
		MaxLength: MaxInputLength,
		Loaded:    a.ModelLoaded(),
	}
}

// Analyze classifies a single text.
func (a *Analyzer) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	if !a.ModelLoaded() {
		return models.SentimentResult{}, apperrors.UnavailableError("Model not loaded")
	}
	if IsBlank(text) {
		return models.SentimentResult{}, apperrors.ValidationError("Text cannot be empty")
	}

	preds, err := a.classify(ctx, []string{Truncate(text, MaxInputLength)})
	if err != nil {
		return models.SentimentResult{}, apperrors.InternalError("Failed to analyze sentiment", err)
	}

	result := Remap(preds[0])
	a.record("analyze", []string{text}, []models.SentimentResult{result})
	return result, nil
}

// AnalyzeBatch classifies up to MaxBatchSize texts. Blank entries are dropped
// from the output without error.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) (models.BatchSentimentResponse, error) {
	if !a.ModelLoaded() {
		return models.BatchSentimentResponse{}, apperrors.UnavailableError("Model not loaded")
	}
	if len(texts) == 0 {
		return models.BatchSentimentResponse{}, apperrors.ValidationError("No texts provided")
	}
	if len(texts) > MaxBatchSize {
		return models.BatchSentimentResponse{}, apperrors.ValidationError(
			fmt.Sprintf("Maximum %d texts per batch", MaxBatchSize))
	}

	kept := make([]string, 0, len(texts))
	inputs := make([]string, 0, len(texts))
	for _, text := range texts {
		if IsBlank(text) {
			continue
		}
		kept = append(kept, text)
		inputs = append(inputs, Truncate(text, MaxInputLength))
	}

	response := models.BatchSentimentResponse{Results: make([]models.BatchSentimentItem, 0, len(kept))}
	if len(inputs) == 0 {
		return response, nil
	}

	preds, err := a.classify(ctx, inputs)
	if err != nil {
		return models.BatchSentimentResponse{}, apperrors.InternalError("Failed to analyze sentiments", err).
			WithContext("texts", len(inputs))
	}

	results := make([]models.SentimentResult, len(preds))
	for i, pred := range preds {
		results[i] = Remap(pred)
		response.Results = append(response.Results, models.BatchSentimentItem{
			Text:            Preview(kept[i]),
			SentimentResult: results[i],
		})
	}
	response.Total = len(response.Results)

	a.record("analyze_batch", kept, results)
	return response, nil
}

func (a *Analyzer) classify(ctx context.Context, inputs []string) ([]models.RawPrediction, error) {
	start := a.now()
	preds, err := a.classifier.Classify(ctx, inputs)
	if err == nil && len(preds) != len(inputs) {
		err = fmt.Errorf("classifier returned %d predictions for %d texts", len(preds), len(inputs))
	}
	if a.observer != nil {
		a.observer.ObserveInference(a.now().Sub(start), len(inputs), err)
	}
	if err != nil {
		slog.Error("[Analyzer] Inference failed",
			slog.Int("texts", len(inputs)),
			slog.String("error", err.Error()))
		return nil, err
	}
	return preds, nil
}

func (a *Analyzer) record(source string, texts []string, results []models.SentimentResult) {
	if a.observer != nil {
		for _, r := range results {
			a.observer.ObserveResult(r)
		}
	}
	if a.publisher == nil {
		return
	}

	ts := a.now().UTC()
	events := make([]models.SentimentEvent, len(results))
	for i, r := range results {
		events[i] = models.SentimentEvent{
			EventID:         uuid.NewString(),
			Source:          source,
			Text:            Preview(texts[i]),
			Model:           a.modelName,
			Timestamp:       ts,
			SentimentResult: r,
		}
	}
	a.publisher.Publish(events...)
}
