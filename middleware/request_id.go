package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "requestId"
	HeaderTraceID   = "traceId"
)

// SetHeaderID makes sure every request carries requestId and traceId headers,
// generating them when the caller sent none, and echoes requestId back.
func SetHeaderID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
			c.Request().Header.Set(HeaderRequestID, reqID)
		}
		if c.Get(HeaderTraceID) == "" {
			c.Request().Header.Set(HeaderTraceID, uuid.NewString())
		}
		c.Set(HeaderRequestID, reqID)
		return c.Next()
	}
}
