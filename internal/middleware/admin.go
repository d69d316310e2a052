package middleware

import (
	"log/slog"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired rejects anonymous and non-admin requests with 403 forbidden.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user != nil && user.Admin {
			return c.Next()
		}

		handle := ""
		if user != nil {
			handle = user.Handle
		}
		slog.Warn("admin access denied",
			"handle", handle,
			"admin_handle", cfg.AdminHandle,
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
		)
		return c.Status(fiber.StatusForbidden).JSON(dto.CodeResponse{Code: dto.CodeForbidden})
	}
}
