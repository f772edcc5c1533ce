package ai_proxy

import (
	"github.com/gofiber/fiber/v2"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/api"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/logz"
	"go.uber.org/zap"
)

// NewChatProxyHandler forwards one chat turn to the upstream model. It must
// be mounted for every verb so that non-POST requests get a 405 from here
// rather than the router's 404.
func NewChatProxyHandler(
	backend ai.Backend,
	params ai.CompletionParams,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return api.MethodNotAllowed(c, fiber.MethodPost)
		}

		// UserContext is not tied to the client connection; a disconnect
		// does not abort the upstream call.
		ctx := c.UserContext()
		logger := logz.WithTrace(ctx, logz.NewLogger(), c.Get("requestId"))

		if !backend.Ready() {
			logger.Error("[chat-proxy] upstream client not initialized", zap.Error(backend.InitErr))
			return api.InternalError(c, ai.UnavailableMessage)
		}

		req, err := ai.DecodeChatRequest(c.Body())
		if err != nil {
			return api.BadRequest(c, "Invalid request body: "+err.Error())
		}

		messages := ai.AssembleMessages(req.SystemPrompt, req.Messages)
		if !ai.HasConversation(messages) {
			return api.BadRequest(c, ai.ErrNoUserMessages.Error())
		}

		logger.Info("[chat-proxy] calling upstream",
			zap.Int("messages", len(messages)),
			zap.String("first_role", messages[0].Role),
			zap.String("model", params.Model),
		)
		reply, err := backend.Complete(ctx, logger, messages, params)
		if err == nil && (reply == nil || reply.Content == "") {
			logger.Error("[chat-proxy] upstream response missing content")
			err = ai.ErrEmptyResponse
		}
		if err != nil {
			status := ai.StatusOf(err)
			logger.Error("[chat-proxy] upstream error", zap.Int("status", status), zap.Error(err))
			return api.Error(c, status, "AI model request failed: "+ai.MessageOf(err))
		}

		if reply.Role == "" {
			reply.Role = ai.RoleAssistant
		}
		logger.Info("[chat-proxy] received successful response", zap.Int("content_len", len(reply.Content)))
		return api.Ok(c, reply)
	}
}
