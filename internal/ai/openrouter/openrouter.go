package openrouter

import (
	"context"
	"errors"

	"github.com/revrost/go-openrouter"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"go.uber.org/zap"
)

func Open(apiKey string) (*openrouter.Client, error) {
	if apiKey == "" {
		return nil, ai.ErrMissingCredential
	}
	return openrouter.NewClient(apiKey), nil
}

func toMessages(messages []ai.ChatMessage) []openrouter.ChatCompletionMessage {
	out := make([]openrouter.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openrouter.ChatMessageRoleUser
		switch m.Role {
		case ai.RoleSystem:
			role = openrouter.ChatMessageRoleSystem
		case ai.RoleAssistant:
			role = openrouter.ChatMessageRoleAssistant
		}
		out = append(out, openrouter.ChatCompletionMessage{
			Role:    role,
			Content: openrouter.Content{Text: m.Content},
		})
	}
	return out
}

func ChatCompletion(client *openrouter.Client) ai.ChatCompletionFunc {
	return func(ctx context.Context, logger *zap.Logger, messages []ai.ChatMessage, params ai.CompletionParams) (*ai.ChatMessage, error) {
		resp, err := client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
			Model:       params.Model,
			Messages:    toMessages(messages),
			Temperature: float32(params.Temperature),
			MaxTokens:   int(params.MaxTokens),
			TopP:        float32(params.TopP),
		})
		if err != nil {
			logger.Error("openrouter chat completion failed", zap.Error(err))
			return nil, toUpstreamError(err)
		}
		if len(resp.Choices) == 0 {
			logger.Error("openrouter response has no choices", zap.String("id", resp.ID))
			return nil, nil
		}

		msg := resp.Choices[0].Message
		return &ai.ChatMessage{
			Role:    msg.Role,
			Content: msg.Content.Text,
		}, nil
	}
}

func toUpstreamError(err error) error {
	var apiErr *openrouter.APIError
	if errors.As(err, &apiErr) {
		return &ai.UpstreamError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openrouter.RequestError
	if errors.As(err, &reqErr) {
		return &ai.UpstreamError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	return &ai.UpstreamError{Err: err}
}
