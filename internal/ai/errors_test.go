package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(&UpstreamError{Status: 429, Message: "slow down"}))
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(fmt.Errorf("wrapped: %w", &UpstreamError{Status: 429})))
	assert.Equal(t, http.StatusBadGateway, StatusOf(&UpstreamError{Message: "no status"}))
	assert.Equal(t, http.StatusBadGateway, StatusOf(errors.New("dial tcp: refused")))
	assert.Equal(t, http.StatusBadGateway, StatusOf(ErrEmptyResponse))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "slow down", MessageOf(&UpstreamError{Status: 429, Message: "slow down"}))
	assert.Equal(t, "dial tcp: refused", MessageOf(&UpstreamError{Err: errors.New("dial tcp: refused")}))
	assert.Equal(t, "Unknown error", MessageOf(&UpstreamError{}))
	assert.Equal(t, "Unknown error", MessageOf(errors.New("")))
	assert.Equal(t, "Unknown error", MessageOf(nil))
	assert.Equal(t, ErrEmptyResponse.Error(), MessageOf(ErrEmptyResponse))
}

func TestBackendReady(t *testing.T) {
	assert.False(t, Backend{}.Ready())
	assert.False(t, Backend{InitErr: ErrConfiguration}.Ready())
	assert.True(t, Backend{Complete: func(_ context.Context, _ *zap.Logger, _ []ChatMessage, _ CompletionParams) (*ChatMessage, error) {
		return nil, nil
	}}.Ready())
}
