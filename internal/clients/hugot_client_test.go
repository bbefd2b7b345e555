package clients

import (
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPredictions(t *testing.T) {
	preds, err := toPredictions([][]pipelines.ClassificationOutput{
		{{Label: "POSITIVE", Score: 0.75}},
		{{Label: "POSITIVE", Score: 0.1}, {Label: "NEGATIVE", Score: 0.9}},
		{{Label: "LABEL_0", Score: 0.6}},
	})

	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, models.RawLabelPositive, preds[0].Label)
	assert.InDelta(t, 0.75, preds[0].Confidence, 1e-6)
	assert.Equal(t, models.RawLabelNegative, preds[1].Label)
	assert.InDelta(t, 0.9, preds[1].Confidence, 1e-6)
	assert.Equal(t, models.RawLabelNegative, preds[2].Label)
}

func TestToPredictions_Errors(t *testing.T) {
	_, err := toPredictions([][]pipelines.ClassificationOutput{{}})
	assert.Error(t, err)

	_, err = toPredictions([][]pipelines.ClassificationOutput{{{Label: "MIXED", Score: 1}}})
	assert.ErrorContains(t, err, "unexpected model label")
}
