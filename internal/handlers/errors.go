package handlers

import (
	"errors"

	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the response codes. Anything it does
// not recognise is returned for the app's error handler to turn into a 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return badRequest(c, verr.Fields)
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrChartNotFound):
		return notFound(c)
	default:
		return err
	}
}

func badRequest(c *fiber.Ctx, fields []dto.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.BadRequestResponse{
		Code:  dto.CodeBadRequest,
		Error: fields,
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.CodeResponse{Code: dto.CodeNotFound})
}

func ok(c *fiber.Ctx) error {
	return c.JSON(dto.CodeResponse{Code: dto.CodeOK})
}
