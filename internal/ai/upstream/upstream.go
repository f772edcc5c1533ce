package upstream

import (
	"context"

	"github.com/pkg/errors"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/config"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai/gemini"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai/groq"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai/openrouter"
	"go.uber.org/zap"
)

// New builds the backend for the configured provider once. Failures are
// captured in Backend.InitErr and logged here with full detail; callers only
// ever see a generic message.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) ai.Backend {
	provider := cfg.Upstream.Provider
	if cfg.ProviderKey() == "" {
		logger.Error("FATAL ERROR: upstream API key is missing",
			zap.String("provider", provider))
		return ai.Backend{InitErr: ai.ErrConfiguration}
	}

	complete, err := open(ctx, cfg)
	if err != nil {
		logger.Error("error initializing upstream client",
			zap.String("provider", provider), zap.Error(err))
		return ai.Backend{InitErr: errors.Wrap(err, "Failed to initialize chatbot backend")}
	}
	logger.Info("upstream client ready",
		zap.String("provider", provider), zap.String("model", cfg.ProviderModel()))
	return ai.Backend{Complete: complete}
}

func open(ctx context.Context, cfg config.Config) (ai.ChatCompletionFunc, error) {
	switch cfg.Upstream.Provider {
	case config.ProviderGroq, "":
		client, err := groq.Open(cfg.GroqConfig.ApiKey, cfg.GroqConfig.BaseURL)
		if err != nil {
			return nil, err
		}
		return groq.ChatCompletion(client), nil
	case config.ProviderOpenRouter:
		client, err := openrouter.Open(cfg.OpenRouterConfig.ApiKey)
		if err != nil {
			return nil, err
		}
		return openrouter.ChatCompletion(client), nil
	case config.ProviderGemini:
		client, err := gemini.Open(ctx, cfg.GeminiConfig.ApiKey)
		if err != nil {
			return nil, err
		}
		return gemini.ChatCompletion(client), nil
	default:
		return nil, errors.Errorf("unsupported provider %q", cfg.Upstream.Provider)
	}
}

// Params returns the fixed sampling configuration for the deployment.
func Params(cfg config.Config) ai.CompletionParams {
	p := ai.DefaultParams()
	if m := cfg.ProviderModel(); m != "" {
		p.Model = m
	}
	if cfg.Upstream.Temperature > 0 {
		p.Temperature = cfg.Upstream.Temperature
	}
	if cfg.Upstream.MaxTokens > 0 {
		p.MaxTokens = cfg.Upstream.MaxTokens
	}
	if cfg.Upstream.TopP > 0 {
		p.TopP = cfg.Upstream.TopP
	}
	return p
}
