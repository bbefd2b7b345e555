package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/lifelens-sentiment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func newMockValkey(t *testing.T, ttl time.Duration) (*ValkeyClient, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return &ValkeyClient{Client: client, ttl: ttl}, client
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.True(t, isConnectionError(errors.New("read tcp: i/o timeout")))
	assert.False(t, isConnectionError(errors.New("WRONGTYPE Operation against a key")))
}

func TestGetPredictions(t *testing.T) {
	ctx := context.Background()
	vc, client := newMockValkey(t, time.Hour)

	client.EXPECT().
		Do(ctx, mock.Match("MGET", "hit", "missing", "garbage")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyString(`{"label":"POSITIVE","confidence":0.9}`),
			mock.ValkeyNil(),
			mock.ValkeyString("not json"),
		)))

	preds, err := vc.GetPredictions(ctx, []string{"hit", "missing", "garbage"})
	require.NoError(t, err)

	assert.Equal(t, map[string]models.RawPrediction{
		"hit": {Label: models.RawLabelPositive, Confidence: 0.9},
	}, preds)
}

func TestGetPredictions_NoKeys(t *testing.T) {
	vc, _ := newMockValkey(t, time.Hour)

	preds, err := vc.GetPredictions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestGetPredictions_Error(t *testing.T) {
	ctx := context.Background()
	vc, client := newMockValkey(t, time.Hour)

	client.EXPECT().
		Do(ctx, mock.Match("MGET", "k")).
		Return(mock.ErrorResult(errors.New("WRONGTYPE Operation against a key")))

	_, err := vc.GetPredictions(ctx, []string{"k"})
	assert.Error(t, err)
}

func TestSetPredictions_UsesTTL(t *testing.T) {
	ctx := context.Background()
	vc, client := newMockValkey(t, 2*time.Hour)

	client.EXPECT().
		DoMulti(ctx, mock.Match("SET", "k", `{"label":"NEGATIVE","confidence":0.7}`, "EX", "7200")).
		Return([]valkey.ValkeyResult{mock.Result(mock.ValkeyString("OK"))})

	err := vc.SetPredictions(ctx, map[string]models.RawPrediction{
		"k": {Label: models.RawLabelNegative, Confidence: 0.7},
	})
	require.NoError(t, err)
}

func TestSetPredictions_SubSecondTTLRoundsUp(t *testing.T) {
	ctx := context.Background()
	vc, client := newMockValkey(t, 100*time.Millisecond)

	client.EXPECT().
		DoMulti(ctx, mock.Match("SET", "k", `{"label":"POSITIVE","confidence":1}`, "EX", "1")).
		Return([]valkey.ValkeyResult{mock.Result(mock.ValkeyString("OK"))})

	require.NoError(t, vc.SetPredictions(ctx, map[string]models.RawPrediction{
		"k": {Label: models.RawLabelPositive, Confidence: 1},
	}))
}

func TestSetPredictions_Error(t *testing.T) {
	ctx := context.Background()
	vc, client := newMockValkey(t, time.Hour)

	client.EXPECT().
		DoMulti(ctx, gomock.Any()).
		Return([]valkey.ValkeyResult{mock.ErrorResult(errors.New("OOM command not allowed"))})

	err := vc.SetPredictions(ctx, map[string]models.RawPrediction{
		"k": {Label: models.RawLabelPositive, Confidence: 0.8},
	})
	assert.Error(t, err)
}
