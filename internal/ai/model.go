package ai

import (
	"context"

	"go.uber.org/zap"
)

const (
	RoleSystem    string = "system"
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

const (
	DefaultModel       = "llama3-70b-8192"
	DefaultTemperature = 1.0
	DefaultMaxTokens   = 1024
	DefaultTopP        = 1.0
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequestPayload is the body the chat widget posts to the proxy.
type ChatRequestPayload struct {
	Messages     []ChatMessage `json:"messages"`
	SystemPrompt string        `json:"systemPrompt,omitempty"`
}

// CompletionParams are fixed per deployment; nothing in a request changes them.
type CompletionParams struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	TopP        float64
}

func DefaultParams() CompletionParams {
	return CompletionParams{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
	}
}

// ChatCompletionFunc performs one non-streaming completion. A nil message with
// a nil error means the provider answered without a usable choice.
type ChatCompletionFunc func(
	ctx context.Context,
	logger *zap.Logger,
	messages []ChatMessage,
	params CompletionParams,
) (*ChatMessage, error)

// Backend is the process-wide upstream handle. Exactly one of Complete and
// InitErr is set, and neither changes after startup.
type Backend struct {
	Complete ChatCompletionFunc
	InitErr  error
}

func (b Backend) Ready() bool {
	return b.InitErr == nil && b.Complete != nil
}
