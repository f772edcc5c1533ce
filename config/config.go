package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Models used when neither the provider section nor Upstream.Model names one.
const (
	DefaultGroqModel       = "llama3-70b-8192"
	DefaultOpenRouterModel = "meta-llama/llama-3-70b-instruct"
	DefaultGeminiModel     = "gemini-2.0-flash"
)

type Config struct {
	Env              string
	Server           Server
	LogConfig        LogConfig
	OtelConfig       OtelConfig
	Upstream         Upstream
	GroqConfig       AiConfig
	OpenRouterConfig AiConfig
	GeminiConfig     AiConfig
	Client           Client
}

type OtelConfig struct {
	Endpoint string
}

type AiConfig struct {
	ApiKey  string
	BaseURL string
	Model   string
}

// Upstream selects the chat-completion provider. Sampling values are fixed
// per deployment and never taken from a request.
type Upstream struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int64
	TopP        float64
}

type Server struct {
	Name         string
	Port         string
	ChatPath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level string
}

// Client configures the terminal chat widget.
type Client struct {
	ProxyURL string
	Timeout  time.Duration
}

func InitConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println("unable to load .env: " + err.Error())
	}

	v := viper.New()
	setDefaults(v)

	configPath, ok := os.LookupEnv("API_CONFIG_PATH")
	if !ok {
		configPath = "./config"
	}

	configName, ok := os.LookupEnv("API_CONFIG_NAME")
	if !ok {
		configName = "config"
	}

	v.SetConfigName(configName)
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("config file not found. using default/env config: " + err.Error())
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindSecrets(v); err != nil {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	c.Upstream.Provider = strings.ToLower(strings.TrimSpace(c.Upstream.Provider))

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Env", "local")
	v.SetDefault("LogConfig.Level", "info")
	v.SetDefault("Server.Name", "framework-guide")
	v.SetDefault("Server.Port", "8888")
	v.SetDefault("Server.ChatPath", "/api/groq-proxy")
	v.SetDefault("Server.ReadTimeout", 10*time.Second)
	v.SetDefault("Server.WriteTimeout", 90*time.Second)
	v.SetDefault("Server.IdleTimeout", 30*time.Second)
	v.SetDefault("Upstream.Provider", ProviderGroq)
	v.SetDefault("Upstream.Temperature", 1.0)
	v.SetDefault("Upstream.MaxTokens", 1024)
	v.SetDefault("Upstream.TopP", 1.0)
	v.SetDefault("GroqConfig.BaseURL", "https://api.groq.com/openai/v1/")
	v.SetDefault("Client.ProxyURL", "http://localhost:8888/api/groq-proxy")
	v.SetDefault("Client.Timeout", 2*time.Minute)
}

// bindSecrets maps the conventional provider env names onto config keys.
func bindSecrets(v *viper.Viper) error {
	secrets := map[string]string{
		"GroqConfig.ApiKey":       "GROQ_API_KEY",
		"OpenRouterConfig.ApiKey": "OPENROUTER_API_KEY",
		"GeminiConfig.ApiKey":     "GEMINI_API_KEY",
	}
	for key, env := range secrets {
		if err := v.BindEnv(key, env); err != nil {
			return errors.Wrapf(err, "bind %s", env)
		}
	}
	return nil
}

// ProviderKey returns the credential configured for the selected provider.
func (c Config) ProviderKey() string {
	switch c.Upstream.Provider {
	case ProviderOpenRouter:
		return c.OpenRouterConfig.ApiKey
	case ProviderGemini:
		return c.GeminiConfig.ApiKey
	default:
		return c.GroqConfig.ApiKey
	}
}

// ProviderModel prefers a provider-specific model, then the shared one, then
// the provider's default.
func (c Config) ProviderModel() string {
	var m, fallback string
	switch c.Upstream.Provider {
	case ProviderOpenRouter:
		m, fallback = c.OpenRouterConfig.Model, DefaultOpenRouterModel
	case ProviderGemini:
		m, fallback = c.GeminiConfig.Model, DefaultGeminiModel
	default:
		m, fallback = c.GroqConfig.Model, DefaultGroqModel
	}
	if m != "" {
		return m
	}
	if c.Upstream.Model != "" {
		return c.Upstream.Model
	}
	return fallback
}
