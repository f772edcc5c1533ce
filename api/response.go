package api

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the single-field envelope every failure is reported with.
type ErrorResponse struct {
	Error string `json:"error"`
}

func Ok(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusOK).JSON(data)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, http.StatusBadRequest, message)
}

func InternalError(c *fiber.Ctx, message string) error {
	return Error(c, http.StatusInternalServerError, message)
}

// MethodNotAllowed answers in plain text and advertises the accepted verb.
func MethodNotAllowed(c *fiber.Ctx, allow string) error {
	c.Set(fiber.HeaderAllow, allow)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(http.StatusMethodNotAllowed).SendString(fmt.Sprintf("Method %s Not Allowed", c.Method()))
}
