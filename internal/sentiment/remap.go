package sentiment

import "github.com/spacesedan/lifelens-sentiment/internal/models"

// NeutralThreshold is the confidence below which a prediction is reported as neutral.
const NeutralThreshold = 0.6

// Remap turns a two-class model prediction into the three-way result served by the API.
//
// In the neutral branch only scores.Neutral is rewritten, so the three scores no longer
// sum to 1. Score always carries the model's confidence unchanged.
func Remap(pred models.RawPrediction) models.SentimentResult {
	c := pred.Confidence

	var result models.SentimentResult
	if pred.Label == models.RawLabelPositive {
		result.Label = models.LabelPositive
		result.Scores = models.SentimentScores{Positive: c, Negative: 1 - c}
	} else {
		result.Label = models.LabelNegative
		result.Scores = models.SentimentScores{Positive: 1 - c, Negative: c}
	}

	if c < NeutralThreshold {
		result.Label = models.LabelNeutral
		result.Scores.Neutral = 1 - c
	}

	result.Score = c
	return result
}
