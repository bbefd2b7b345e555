package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/lifelens-sentiment/internal/models"
)

type HugotConfig struct {
	// Repo is the Hugging Face repository holding the ONNX export.
	Repo     string
	ModelDir string
}

// HugotClient runs a text classification pipeline on an ONNX Runtime session.
// Calls into the pipeline are serialized.
type HugotClient struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

// NewHugotClient downloads the model when it is not cached in ModelDir and
// builds the pipeline.
func NewHugotClient(cfg HugotConfig) (*HugotClient, error) {
	modelPath, err := ensureModel(cfg)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			slog.Warn("[HugotClient] Failed to destroy session",
				slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize text classification pipeline: %w", err)
	}

	slog.Info("[HugotClient] Sentiment pipeline ready", slog.String("path", modelPath))
	return &HugotClient{session: session, pipeline: pipeline}, nil
}

func ensureModel(cfg HugotConfig) (string, error) {
	if err := os.MkdirAll(cfg.ModelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(cfg.ModelDir, strings.ReplaceAll(cfg.Repo, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[HugotClient] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat model path: %w", err)
	}

	slog.Info("[HugotClient] Model not found, downloading...", slog.String("repo", cfg.Repo))
	start := time.Now()
	downloaded, err := hugot.DownloadModel(cfg.Repo, cfg.ModelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", cfg.Repo, err)
	}
	slog.Info("[HugotClient] Model downloaded successfully",
		slog.String("path", downloaded),
		slog.Duration("elapsed", time.Since(start)))
	return downloaded, nil
}

func (h *HugotClient) Classify(ctx context.Context, texts []string) ([]models.RawPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline(texts)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}

	return toPredictions(output.ClassificationOutputs)
}

// Close releases the ONNX Runtime session.
func (h *HugotClient) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	slog.Info("[HugotClient] Destroying session")
	return h.session.Destroy()
}

func toPredictions(outputs [][]pipelines.ClassificationOutput) ([]models.RawPrediction, error) {
	preds := make([]models.RawPrediction, len(outputs))
	for i, classes := range outputs {
		if len(classes) == 0 {
			return nil, fmt.Errorf("no classification output for input %d", i)
		}

		best := classes[0]
		for _, class := range classes[1:] {
			if class.Score > best.Score {
				best = class
			}
		}

		label, err := parseRawLabel(best.Label)
		if err != nil {
			return nil, err
		}
		preds[i] = models.RawPrediction{Label: label, Confidence: float64(best.Score)}
	}
	return preds, nil
}

func parseRawLabel(label string) (models.RawLabel, error) {
	switch strings.ToUpper(label) {
	case string(models.RawLabelPositive), "LABEL_1":
		return models.RawLabelPositive, nil
	case string(models.RawLabelNegative), "LABEL_0":
		return models.RawLabelNegative, nil
	default:
		return "", fmt.Errorf("unexpected model label %q", label)
	}
}
