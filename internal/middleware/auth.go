package middleware

import (
	"errors"
	"log/slog"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/models"
	"github.com/chartcyanvas/backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie  = "session"
	currentUserKey = "currentUser"
)

// Identify resolves the session token, if any, into the current user. A
// missing or invalid token leaves the request anonymous.
func Identify(cfg *config.Config, auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:" + fiber.HeaderAuthorization + ",cookie:" + SessionCookie,
		AuthScheme:  "Bearer",
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return c.Next()
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.Next()
			}
			user, err := auth.UserFromClaims(c.UserContext(), claims)
			switch {
			case err == nil:
				c.Locals(currentUserKey, user)
			case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUserNotFound):
				slog.Debug("session ignored", "error", err)
			default:
				return err
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Next()
		},
	})
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
