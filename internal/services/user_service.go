package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) FindByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user %q: %w", handle, err)
	}
	return &user, nil
}

// Profile returns the public view of the user with the given handle.
func (s *UserService) Profile(ctx context.Context, handle string) (*dto.UserResponse, error) {
	user, err := s.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	profiles, err := s.Profiles(ctx, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// Profiles converts users to their public view, counting public charts in a
// single grouped query.
func (s *UserService) Profiles(ctx context.Context, users []models.User) ([]dto.UserResponse, error) {
	profiles := make([]dto.UserResponse, 0, len(users))
	if len(users) == 0 {
		return profiles, nil
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	var rows []struct {
		AuthorID uint
		Count    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Chart{}).
		Select("author_id, count(*) AS count").
		Where("author_id IN ? AND visibility = ?", ids, models.VisibilityPublic).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count charts: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.AuthorID] = r.Count
	}
	for i := range users {
		profiles = append(profiles, dto.NewUserResponse(&users[i], counts[users[i].ID]))
	}
	return profiles, nil
}
