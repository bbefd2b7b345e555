package sentiment

import (
	"testing"

	"github.com/spacesedan/lifelens-sentiment/internal/models"
	"github.com/stretchr/testify/assert"
)

const delta = 1e-9

func TestRemap_Examples(t *testing.T) {
	tests := []struct {
		name string
		pred models.RawPrediction
		want models.SentimentResult
	}{
		{
			name: "confident positive",
			pred: models.RawPrediction{Label: models.RawLabelPositive, Confidence: 0.95},
			want: models.SentimentResult{
				Label:  models.LabelPositive,
				Score:  0.95,
				Scores: models.SentimentScores{Positive: 0.95, Negative: 0.05, Neutral: 0},
			},
		},
		{
			name: "confident negative",
			pred: models.RawPrediction{Label: models.RawLabelNegative, Confidence: 0.8},
			want: models.SentimentResult{
				Label:  models.LabelNegative,
				Score:  0.8,
				Scores: models.SentimentScores{Positive: 0.2, Negative: 0.8, Neutral: 0},
			},
		},
		{
			name: "weak negative becomes neutral",
			pred: models.RawPrediction{Label: models.RawLabelNegative, Confidence: 0.55},
			want: models.SentimentResult{
				Label:  models.LabelNeutral,
				Score:  0.55,
				Scores: models.SentimentScores{Positive: 0.45, Negative: 0.55, Neutral: 0.45},
			},
		},
		{
			name: "threshold itself is not neutral",
			pred: models.RawPrediction{Label: models.RawLabelPositive, Confidence: 0.6},
			want: models.SentimentResult{
				Label:  models.LabelPositive,
				Score:  0.6,
				Scores: models.SentimentScores{Positive: 0.6, Negative: 0.4, Neutral: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remap(tt.pred)
			assert.Equal(t, tt.want.Label, got.Label)
			assert.Equal(t, tt.want.Score, got.Score)
			assert.InDelta(t, tt.want.Scores.Positive, got.Scores.Positive, delta)
			assert.InDelta(t, tt.want.Scores.Negative, got.Scores.Negative, delta)
			assert.InDelta(t, tt.want.Scores.Neutral, got.Scores.Neutral, delta)
		})
	}
}

func TestRemap_NeutralScoresDoNotSumToOne(t *testing.T) {
	got := Remap(models.RawPrediction{Label: models.RawLabelNegative, Confidence: 0.55})

	sum := got.Scores.Positive + got.Scores.Negative + got.Scores.Neutral
	assert.InDelta(t, 1.45, sum, delta)
}

func TestRemap_Properties(t *testing.T) {
	for i := 0; i <= 100; i++ {
		c := float64(i) / 100
		for _, raw := range []models.RawLabel{models.RawLabelPositive, models.RawLabelNegative} {
			got := Remap(models.RawPrediction{Label: raw, Confidence: c})

			assert.Equal(t, c, got.Score, "score must be the untouched confidence")

			if c < NeutralThreshold {
				assert.Equal(t, models.LabelNeutral, got.Label)
				assert.InDelta(t, 1-c, got.Scores.Neutral, delta)
				continue
			}

			assert.Equal(t, raw == models.RawLabelPositive, got.Label == models.LabelPositive)
			assert.Zero(t, got.Scores.Neutral)
			assert.InDelta(t, 1.0, got.Scores.Positive+got.Scores.Negative+got.Scores.Neutral, delta)
			if got.Label == models.LabelPositive {
				assert.Equal(t, c, got.Scores.Positive)
			} else {
				assert.Equal(t, c, got.Scores.Negative)
			}
		}
	}
}
