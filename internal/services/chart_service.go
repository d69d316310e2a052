package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chartcyanvas/backend/internal/models"
	"gorm.io/gorm"
)

const maxChartList = 20

type ChartService struct {
	db *gorm.DB
}

func NewChartService(db *gorm.DB) *ChartService {
	return &ChartService{db: db}
}

// ListByAuthors returns the newest public charts of the given authors.
func (s *ChartService) ListByAuthors(ctx context.Context, handles []string) ([]models.Chart, error) {
	charts := make([]models.Chart, 0)
	query := s.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN users ON users.id = charts.author_id").
		Where("charts.visibility = ?", models.VisibilityPublic)
	if len(handles) > 0 {
		query = query.Where("users.handle IN ?", handles)
	}
	if err := query.Order("charts.created_at DESC").Limit(maxChartList).Find(&charts).Error; err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	return charts, nil
}

// FindVisible returns the named chart if viewer may see it. Non-public charts
// are only visible to their author and admins.
func (s *ChartService) FindVisible(ctx context.Context, name string, viewer *models.User) (*models.Chart, error) {
	var chart models.Chart
	if err := s.db.WithContext(ctx).Preload("Author").Where("name = ?", name).First(&chart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, fmt.Errorf("failed to find chart %q: %w", name, err)
	}
	if chart.Visibility == models.VisibilityPublic {
		return &chart, nil
	}
	if viewer != nil && (viewer.Admin || viewer.ID == chart.AuthorID) {
		return &chart, nil
	}
	return nil, ErrChartNotFound
}
