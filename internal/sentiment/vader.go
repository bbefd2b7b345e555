package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// VaderClassifier is a lexicon backend for hosts that cannot run the ONNX model.
// The compound score c maps to confidence (|c|+1)/2, so |c| < 0.2 lands below
// NeutralThreshold.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(ctx context.Context, texts []string) ([]models.RawPrediction, error) {
	preds := make([]models.RawPrediction, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := v.analyzer.PolarityScores(ConvertMarkdownToText(text))
		preds = append(preds, compoundToPrediction(score.Compound))
	}
	return preds, nil
}

func compoundToPrediction(compound float64) models.RawPrediction {
	label := models.RawLabelPositive
	if compound < 0 {
		label = models.RawLabelNegative
	}
	return models.RawPrediction{
		Label:      label,
		Confidence: (math.Abs(compound) + 1) / 2,
	}
}

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips it down to plain words.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := htmlTagPattern.ReplaceAllString(string(output), " ")
	return strings.Join(strings.Fields(plain), " ")
}
