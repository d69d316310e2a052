package handlers

import (
	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/middleware"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Show serves a user's public profile.
func (h *UserHandler) Show(c *fiber.Ctx) error {
	profile, err := h.userService.Profile(c.UserContext(), c.Params("handle"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserEnvelope{Code: dto.CodeOK, User: profile})
}

// Session describes the signed-in user for the frontend.
func (h *UserHandler) Session(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.CodeResponse{Code: dto.CodeNotLoggedIn})
	}

	profile, err := h.userService.Profile(c.UserContext(), user.Handle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SessionEnvelope{
		Code: dto.CodeOK,
		User: &dto.SessionUser{UserResponse: *profile, Admin: user.Admin},
	})
}
