package ai_proxy

import (
	"github.com/gofiber/fiber/v2"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/api"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
)

func NewHealthHandler(version int64, backend ai.Backend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return api.Ok(c, fiber.Map{
			"version":  version,
			"upstream": backend.Ready(),
		})
	}
}
