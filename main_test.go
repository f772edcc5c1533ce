package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/config"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"go.uber.org/zap"
)

func newServerApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		Server:   config.Server{Name: "framework-guide", ChatPath: "/api/groq-proxy"},
		Upstream: config.Upstream{Provider: config.ProviderGroq},
	}
	backend := ai.Backend{Complete: func(context.Context, *zap.Logger, []ai.ChatMessage, ai.CompletionParams) (*ai.ChatMessage, error) {
		return &ai.ChatMessage{Role: ai.RoleAssistant, Content: "hello"}, nil
	}}
	app := initFiber(cfg)
	registerRoutes(app, cfg, backend, 7)
	return app
}

func TestServer_NonPostIsMethodNotAllowed(t *testing.T) {
	app := newServerApp(t)

	methods := []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions}
	for _, m := range methods {
		t.Run(m, func(t *testing.T) {
			req := httptest.NewRequest(m, "/api/groq-proxy", nil)
			req.Header.Set("Origin", "https://elsewhere.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
			assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_PostThroughMiddleware(t *testing.T) {
	app := newServerApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/groq-proxy",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("requestId"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	var out ai.ChatMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, ai.ChatMessage{Role: ai.RoleAssistant, Content: "hello"}, out)
}

func TestServer_Health(t *testing.T) {
	app := newServerApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/framework-guide/api/v1/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"upstream":true`)
}
