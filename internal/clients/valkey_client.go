package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/lifelens-sentiment/internal/models"
	"github.com/valkey-io/valkey-go"
)

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// ValkeyClient stores raw model predictions so repeated texts skip inference.
type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeyClient(ctx context.Context, cfg ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	vc := &ValkeyClient{Client: client, ttl: cfg.TTL}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := vc.Ping(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))
	return vc, nil
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	return vc.Client.Do(ctx, vc.Client.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) Close() {
	slog.Info("[ValkeyClient] Closing connection")
	vc.Client.Close()
}

// GetPredictions reads all keys in one MGET. Missing keys are absent from the result.
func (vc *ValkeyClient) GetPredictions(ctx context.Context, keys []string) (map[string]models.RawPrediction, error) {
	out := make(map[string]models.RawPrediction, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	res := vc.DoWithRetry(ctx, vc.Client.B().Mget().Key(keys...).Build(), MAX_RETRIES)
	values, err := res.ToArray()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if i >= len(keys) {
			break
		}
		raw, err := v.ToString()
		if err != nil {
			// nil reply for a missing key
			continue
		}
		var pred models.RawPrediction
		if err := json.Unmarshal([]byte(raw), &pred); err != nil {
			slog.Warn("[ValkeyClient] Discarding undecodable cache entry",
				slog.String("key", keys[i]),
				slog.String("error", err.Error()))
			continue
		}
		out[keys[i]] = pred
	}
	return out, nil
}

// SetPredictions writes every prediction with the configured TTL.
func (vc *ValkeyClient) SetPredictions(ctx context.Context, preds map[string]models.RawPrediction) error {
	if len(preds) == 0 {
		return nil
	}

	ttl := int64(vc.ttl / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	completed := make([]valkey.Completed, 0, len(preds))
	for key, pred := range preds {
		body, err := json.Marshal(pred)
		if err != nil {
			return fmt.Errorf("failed to marshal prediction: %w", err)
		}
		completed = append(completed,
			vc.Client.B().Set().Key(key).Value(string(body)).ExSeconds(ttl).Build())
	}

	for _, res := range vc.DoMultiWithRetry(ctx, completed, MAX_RETRIES) {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if err := r.Error(); err != nil && !valkey.IsValkeyNil(err) {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", err.Error()))
				break
			}
		}
		if !hasErr || !isConnectionError(firstError(results)) {
			break
		}
		time.Sleep(RETRY_BACKOFF)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		err := result.Error()
		if err == nil || !isConnectionError(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		time.Sleep(RETRY_BACKOFF)
	}

	return result
}

func firstError(results []valkey.ValkeyResult) error {
	for _, r := range results {
		if err := r.Error(); err != nil {
			return err
		}
	}
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
