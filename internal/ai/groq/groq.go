package groq

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1/"

// Open builds a client for Groq's OpenAI-compatible endpoint. The SDK's
// built-in retries are disabled so each request makes a single attempt.
func Open(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, ai.ErrMissingCredential
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return client, nil
}

// toParams keeps content a plain string. Groq rejects content parts for
// system and assistant messages.
func toParams(messages []ai.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		role := ai.RoleUser
		if m.Role == ai.RoleSystem || m.Role == ai.RoleAssistant {
			role = m.Role
		}
		msgs = append(msgs, openai.ChatCompletionMessageParam{
			Role:    openai.F(openai.ChatCompletionMessageParamRole(role)),
			Content: openai.F[interface{}](m.Content),
		})
	}
	return msgs
}

func ChatCompletion(client *openai.Client) ai.ChatCompletionFunc {
	return func(ctx context.Context, logger *zap.Logger, messages []ai.ChatMessage, params ai.CompletionParams) (*ai.ChatMessage, error) {
		chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages:    openai.F(toParams(messages)),
			Model:       openai.F(openai.ChatModel(params.Model)),
			Temperature: openai.F(params.Temperature),
			MaxTokens:   openai.F(params.MaxTokens),
			TopP:        openai.F(params.TopP),
		})
		if err != nil {
			logger.Error("groq chat completion failed", zap.Error(err))
			return nil, toUpstreamError(err)
		}
		if len(chatCompletion.Choices) == 0 {
			logger.Error("groq response has no choices", zap.String("id", chatCompletion.ID))
			return nil, nil
		}

		msg := chatCompletion.Choices[0].Message
		return &ai.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}, nil
	}
}

func toUpstreamError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ai.UpstreamError{
			Status:  apiErr.StatusCode,
			Message: apiErr.Message,
			Err:     err,
		}
	}
	return &ai.UpstreamError{Err: err}
}
