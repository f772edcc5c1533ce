package gemini

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func Open(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ai.ErrMissingCredential
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// toContents splits system entries out into a system instruction; Gemini
// calls the assistant role "model".
func toContents(messages []ai.ChatMessage) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		part := &genai.Part{Text: m.Content}
		switch m.Role {
		case ai.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, part)
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{part}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		}
	}
	return system, contents
}

func ChatCompletion(client *genai.Client) ai.ChatCompletionFunc {
	return func(ctx context.Context, logger *zap.Logger, messages []ai.ChatMessage, params ai.CompletionParams) (*ai.ChatMessage, error) {
		system, contents := toContents(messages)
		config := &genai.GenerateContentConfig{
			SystemInstruction: system,
			Temperature:       genai.Ptr(float32(params.Temperature)),
			TopP:              genai.Ptr(float32(params.TopP)),
			MaxOutputTokens:   int32(params.MaxTokens),
		}

		logger.Debug("Selected Gemini model", zap.String("model", params.Model))
		response, err := client.Models.GenerateContent(ctx, params.Model, contents, config)
		if err != nil {
			logger.Error("Gemini GenerateContent error", zap.Error(err))
			return nil, toUpstreamError(err)
		}
		if len(response.Candidates) == 0 {
			return nil, nil
		}

		return &ai.ChatMessage{
			Role:    ai.RoleAssistant,
			Content: response.Text(),
		}, nil
	}
}

func toUpstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.UpstreamError{Status: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ai.UpstreamError{Status: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return &ai.UpstreamError{Err: err}
}
