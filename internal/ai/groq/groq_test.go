package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"go.uber.org/zap"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "llama3-70b-8192",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "The framework has seven categories."},
		"finish_reason": "stop"
	}]
}`

func TestOpen_MissingKey(t *testing.T) {
	client, err := Open("", "")
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
}

func TestChatCompletion_Success(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer server.Close()

	client, err := Open("gsk-test", server.URL+"/")
	require.NoError(t, err)

	msgs := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: "ctx"},
		{Role: ai.RoleUser, Content: "hi"},
		{Role: ai.RoleAssistant, Content: "hello"},
		{Role: ai.RoleUser, Content: "more"},
	}
	msg, err := ChatCompletion(client)(context.Background(), zap.NewNop(), msgs, ai.DefaultParams())
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, ai.ChatMessage{Role: "assistant", Content: "The framework has seven categories."}, *msg)

	assert.Equal(t, "llama3-70b-8192", got["model"])
	assert.EqualValues(t, 1, got["temperature"])
	assert.EqualValues(t, 1024, got["max_tokens"])
	assert.EqualValues(t, 1, got["top_p"])
	assert.NotContains(t, got, "stop")
	assert.NotEqual(t, true, got["stream"])

	sent, ok := got["messages"].([]interface{})
	require.True(t, ok)
	want := []map[string]interface{}{
		{"role": "system", "content": "ctx"},
		{"role": "user", "content": "hi"},
		{"role": "assistant", "content": "hello"},
		{"role": "user", "content": "more"},
	}
	require.Len(t, sent, len(want))
	for i, w := range want {
		assert.Equal(t, w, sent[i], "message %d", i)
	}
}

func TestChatCompletion_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","created":1700000000,"model":"llama3-70b-8192","choices":[]}`))
	}))
	defer server.Close()

	client, err := Open("gsk-test", server.URL+"/")
	require.NoError(t, err)

	msg, err := ChatCompletion(client)(context.Background(), zap.NewNop(),
		[]ai.ChatMessage{{Role: ai.RoleUser, Content: "hi"}}, ai.DefaultParams())
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestChatCompletion_StatusIsKept(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	client, err := Open("gsk-test", server.URL+"/")
	require.NoError(t, err)

	msg, err := ChatCompletion(client)(context.Background(), zap.NewNop(),
		[]ai.ChatMessage{{Role: ai.RoleUser, Content: "hi"}}, ai.DefaultParams())
	require.Error(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, http.StatusTooManyRequests, ai.StatusOf(err))
	assert.NotEmpty(t, ai.MessageOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatCompletion_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := Open("gsk-test", url+"/")
	require.NoError(t, err)

	_, err = ChatCompletion(client)(context.Background(), zap.NewNop(),
		[]ai.ChatMessage{{Role: ai.RoleUser, Content: "hi"}}, ai.DefaultParams())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, ai.StatusOf(err))
}
