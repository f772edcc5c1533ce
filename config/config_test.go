package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("API_CONFIG_PATH", t.TempDir())
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderGroq, cfg.Upstream.Provider)
	assert.Equal(t, "llama3-70b-8192", cfg.ProviderModel())
	assert.Equal(t, 1.0, cfg.Upstream.Temperature)
	assert.Equal(t, int64(1024), cfg.Upstream.MaxTokens)
	assert.Equal(t, 1.0, cfg.Upstream.TopP)
	assert.Equal(t, "/api/groq-proxy", cfg.Server.ChatPath)
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "gsk-test", cfg.ProviderKey())
}

func TestInitConfig_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	body := []byte("upstream:\n  provider: OpenRouter\n  model: shared-model\nopenRouterConfig:\n  model: meta-llama/llama-3-70b-instruct\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600))
	t.Setenv("API_CONFIG_PATH", dir)
	t.Setenv("OPENROUTER_API_KEY", "or-test")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenRouter, cfg.Upstream.Provider)
	assert.Equal(t, "meta-llama/llama-3-70b-instruct", cfg.ProviderModel())
	assert.Equal(t, "or-test", cfg.ProviderKey())
}

func TestProviderKey_MissingCredential(t *testing.T) {
	cfg := Config{Upstream: Upstream{Provider: ProviderGemini, Model: "gemini-2.0-flash"}}
	assert.Empty(t, cfg.ProviderKey())
	assert.Equal(t, "gemini-2.0-flash", cfg.ProviderModel())
}

func TestProviderModel_DefaultsPerProvider(t *testing.T) {
	cases := []struct {
		provider string
		want     string
	}{
		{ProviderGroq, DefaultGroqModel},
		{ProviderOpenRouter, DefaultOpenRouterModel},
		{ProviderGemini, DefaultGeminiModel},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			cfg := Config{Upstream: Upstream{Provider: tc.provider}}
			assert.Equal(t, tc.want, cfg.ProviderModel())
		})
	}
}

func TestInitConfig_GeminiWithoutModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("upstream:\n  provider: gemini\n"), 0o600))
	t.Setenv("API_CONFIG_PATH", dir)
	t.Setenv("GEMINI_API_KEY", "gm-test")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, cfg.ProviderModel())
}
