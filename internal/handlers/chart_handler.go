package handlers

import (
	"strings"

	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/middleware"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/gofiber/fiber/v2"
)

type ChartHandler struct {
	chartService *services.ChartService
}

func NewChartHandler(chartService *services.ChartService) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

// List serves the newest public charts, optionally filtered by the
// comma-separated authorHandles query.
func (h *ChartHandler) List(c *fiber.Ctx) error {
	var handles []string
	for _, handle := range strings.Split(c.Query("authorHandles"), ",") {
		if !strutil.IsBlank(handle) {
			handles = append(handles, strings.TrimSpace(handle))
		}
	}

	charts, err := h.chartService.ListByAuthors(c.UserContext(), handles)
	if err != nil {
		return err
	}

	resp := dto.ChartListEnvelope{Code: dto.CodeOK, Charts: make([]dto.ChartResponse, len(charts))}
	for i := range charts {
		resp.Charts[i] = dto.NewChartResponse(&charts[i])
	}
	return c.JSON(resp)
}

func (h *ChartHandler) Show(c *fiber.Ctx) error {
	chart, err := h.chartService.FindVisible(c.UserContext(), c.Params("name"), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.NewChartResponse(chart)
	return c.JSON(dto.ChartEnvelope{Code: dto.CodeOK, Chart: &resp})
}
