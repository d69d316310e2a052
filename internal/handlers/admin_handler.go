package handlers

import (
	"log/slog"

	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/middleware"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Data serves the dashboard statistics.
func (h *AdminHandler) Data(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return err
	}

	var resp dto.AdminDataResponse
	resp.Code = dto.CodeOK
	resp.Data.Stats = stats
	return c.JSON(resp)
}

// ExpireData reports how many data files exist, then deletes them once the
// response body is written. Deletion failures are only logged.
func (h *AdminHandler) ExpireData(c *fiber.Ctx) error {
	ctx := c.UserContext()
	count, err := h.adminService.CountExpirableData(ctx)
	if err != nil {
		return err
	}

	var resp dto.ExpireDataResponse
	resp.Code = dto.CodeOK
	resp.Data.Count = count
	if err := c.JSON(resp); err != nil {
		return err
	}

	deleted, err := h.adminService.ExpireData(ctx)
	if err != nil {
		slog.Error("expire data failed", "action", "expire_data", "error", err)
		return nil
	}
	slog.Info("expired data files", "action", "expire_data", "reported", count, "deleted", deleted)
	return nil
}

func (h *AdminHandler) ShowUser(c *fiber.Ctx) error {
	lookup, err := h.adminService.LookupUser(c.UserContext(), c.Params("handle"))
	if err != nil {
		return respondError(c, err)
	}

	user := lookup.User
	warnings := make([]dto.WarningResponse, len(lookup.Warnings))
	for i := range lookup.Warnings {
		warnings[i] = dto.NewWarningResponse(&lookup.Warnings[i])
	}

	return c.JSON(dto.AdminUserResponse{
		Code: dto.CodeOK,
		User: &dto.AdminUser{
			AltUsers: lookup.AltUsers,
			Discord: dto.DiscordInfo{
				DisplayName: user.DiscordDisplayName,
				Username:    user.DiscordUsername,
				Avatar:      user.DiscordAvatar,
			},
			Warnings:  warnings,
			WarnCount: user.WarnCount,
			Owner:     lookup.Owner,
		},
	})
}

func (h *AdminHandler) DeleteChart(c *fiber.Ctx) error {
	var req dto.DeleteChartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, []dto.FieldError{{Field: "body", Message: "is invalid"}})
		}
	}

	if err := h.adminService.DeleteChart(c.UserContext(), middleware.CurrentUser(c), &req); err != nil {
		return respondError(c, err)
	}
	return ok(c)
}
