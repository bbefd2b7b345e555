package models

import "time"

// RawLabel is the class name produced by the binary classification model.
type RawLabel string

const (
	RawLabelPositive RawLabel = "POSITIVE"
	RawLabelNegative RawLabel = "NEGATIVE"
)

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// RawPrediction is one model output for one input text.
type RawPrediction struct {
	Label      RawLabel `json:"label"`
	Confidence float64  `json:"confidence"`
}

type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

type SentimentResult struct {
	Label  string          `json:"label"`
	Score  float64         `json:"score"`
	Scores SentimentScores `json:"scores"`
}

type (
	SentimentRequest struct {
		Text string `json:"text"`
	}
	BatchSentimentRequest struct {
		Texts []string `json:"texts"`
	}
)

type (
	BatchSentimentResponse struct {
		Results []BatchSentimentItem `json:"results"`
		Total   int                  `json:"total"`
	}
	BatchSentimentItem struct {
		Text string `json:"text"`
		SentimentResult
	}
)

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type ModelInfo struct {
	ModelName string   `json:"model_name"`
	ModelType string   `json:"model_type"`
	Labels    []string `json:"labels"`
	MaxLength int      `json:"max_length"`
	Loaded    bool     `json:"loaded"`
}

// SentimentEvent is published to the results topic for every analyzed text.
type SentimentEvent struct {
	EventID   string    `json:"event_id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
	SentimentResult
}
