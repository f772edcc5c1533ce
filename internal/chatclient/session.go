package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"go.uber.org/zap"
)

const defaultTimeout = 2 * time.Minute

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a message is already being sent")
)

// ServerError is a non-2xx answer from the proxy.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Session is one chat conversation. History lives only in memory and the
// system context is sent until the first successful reply.
type Session struct {
	client       *fasthttp.Client
	url          string
	systemPrompt string
	timeout      time.Duration
	logger       *zap.Logger

	mu          sync.Mutex
	messages    []ai.ChatMessage
	contextSent bool
	inFlight    bool
	onUpdate    func()
}

func NewSession(url, systemPrompt string, timeout time.Duration, logger *zap.Logger) *Session {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:       &fasthttp.Client{Name: "framework-guide-chat"},
		url:          url,
		systemPrompt: systemPrompt,
		timeout:      timeout,
		logger:       logger,
	}
}

// Send appends input to the history, posts the conversation and appends the
// reply. On failure the user message stays in the history and nothing else
// changes. Only one Send may be outstanding; ctx bounds the wait but an
// in-flight request is not cancelled.
func (s *Session) Send(ctx context.Context, input string) (*ai.ChatMessage, error) {
	text := strings.TrimSpace(input)

	s.mu.Lock()
	if text == "" {
		s.mu.Unlock()
		return nil, ErrEmptyInput
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.inFlight = true
	s.messages = append(s.messages, ai.ChatMessage{Role: ai.RoleUser, Content: text})
	payload := ai.ChatRequestPayload{Messages: conversation(s.messages)}
	if !s.contextSent {
		payload.SystemPrompt = s.systemPrompt
	}
	notify := s.onUpdate
	s.mu.Unlock()
	if notify != nil {
		notify()
	}

	reply, err := s.post(ctx, payload)

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("chat send failed", zap.Error(err))
		return nil, err
	}
	s.messages = append(s.messages, *reply)
	s.contextSent = true
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
	return reply, nil
}

// OnUpdate registers fn to run after the history changes. fn is called
// without the session lock held.
func (s *Session) OnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []ai.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ai.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) ContextSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextSent
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func conversation(msgs []ai.ChatMessage) []ai.ChatMessage {
	out := make([]ai.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == ai.RoleUser || m.Role == ai.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

func (s *Session) post(ctx context.Context, payload ai.ChatRequestPayload) (*ai.ChatMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode chat payload")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	s.logger.Debug("chat send",
		zap.Int("messages", len(payload.Messages)),
		zap.Bool("with_context", payload.SystemPrompt != ""))
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, errors.Wrap(err, "Could not connect to chat service")
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return nil, decodeError(status, resp.Body())
	}

	var msg ai.ChatMessage
	if err := json.Unmarshal(resp.Body(), &msg); err != nil {
		return nil, &ServerError{Status: status, Message: "Invalid response from server."}
	}
	return &msg, nil
}

func decodeError(status int, body []byte) error {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return &ServerError{Status: status, Message: "Invalid response from server."}
	}
	if env.Error == "" {
		return &ServerError{Status: status, Message: fmt.Sprintf("Server error: %d", status)}
	}
	return &ServerError{Status: status, Message: env.Error}
}
