package dto

import (
	"time"

	"github.com/chartcyanvas/backend/internal/models"
)

type ChartResponse struct {
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	Composer   string            `json:"composer"`
	Artist     string            `json:"artist"`
	Rating     int               `json:"rating"`
	Visibility models.Visibility `json:"visibility"`
	Genre      models.Genre      `json:"genre"`
	Author     ChartAuthor       `json:"author"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type ChartAuthor struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// NewChartResponse expects c.Author to be loaded.
func NewChartResponse(c *models.Chart) ChartResponse {
	return ChartResponse{
		Name:       c.Name,
		Title:      c.Title,
		Composer:   c.Composer,
		Artist:     c.Artist,
		Rating:     c.Rating,
		Visibility: c.Visibility,
		Genre:      c.Genre,
		Author:     ChartAuthor{Handle: c.Author.Handle, Name: c.Author.Name},
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

type ChartEnvelope struct {
	Code  string         `json:"code"`
	Chart *ChartResponse `json:"chart,omitempty"`
}

type ChartListEnvelope struct {
	Code   string          `json:"code"`
	Charts []ChartResponse `json:"charts"`
}
