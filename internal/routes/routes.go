package routes

import (
	"errors"
	"log/slog"
	"time"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/handlers"
	"github.com/chartcyanvas/backend/internal/middleware"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Health *handlers.HealthHandler
	User   *handlers.UserHandler
	Chart  *handlers.ChartHandler
	Admin  *handlers.AdminHandler
}

// AppConfig is the fiber configuration of the API server. Client addresses
// are taken from X-Forwarded-For only when the peer is a trusted proxy, so
// traffic relayed by the frontend is limited per browser.
func AppConfig(cfg *config.Config) fiber.Config {
	return fiber.Config{
		BodyLimit:               1 * 1024 * 1024,
		Immutable:               true,
		ErrorHandler:            ErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		EnableIPValidation:      true,
		TrustedProxies:          cfg.TrustedProxies,
	}
}

func Setup(app *fiber.App, cfg *config.Config, authService *services.AuthService, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.CodeResponse{Code: dto.CodeRateLimited})
		},
	}))

	api.Get("/health", h.Health.Check)

	// Identity is optional everywhere below; the admin gate enforces it.
	api.Use(middleware.Identify(cfg, authService))

	api.Get("/login/session", h.User.Session)
	api.Get("/users/:handle", h.User.Show)
	api.Get("/charts", h.Chart.List)
	api.Get("/charts/:name", h.Chart.Show)

	admin := api.Group("/admin", middleware.AdminRequired(cfg))
	admin.Get("/data", h.Admin.Data)
	admin.Post("/expire_data", h.Admin.ExpireData)
	admin.Get("/users/:handle", h.Admin.ShowUser)
	admin.Post("/delete_chart", h.Admin.DeleteChart)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.CodeResponse{Code: dto.CodeNotFound})
	})
}

// ErrorHandler renders errors that escaped the handlers. Server error details
// are logged but never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err.Error(),
		)
		return c.Status(code).JSON(dto.CodeResponse{Code: dto.CodeServerError})
	}

	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).JSON(dto.CodeResponse{Code: dto.CodeNotFound})
	case fiber.StatusForbidden:
		return c.Status(code).JSON(dto.CodeResponse{Code: dto.CodeForbidden})
	default:
		return c.Status(code).JSON(dto.BadRequestResponse{
			Code:  dto.CodeBadRequest,
			Error: []dto.FieldError{{Field: "request", Message: fe.Message}},
		})
	}
}
