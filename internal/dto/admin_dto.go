package dto

import (
	"time"

	"github.com/chartcyanvas/backend/internal/models"
)

type DeleteChartRequest struct {
	Name   string `json:"name" form:"name"`
	Reason string `json:"reason" form:"reason"`
	Level  string `json:"level" form:"level"`
}

type ChartStats struct {
	Public    int64 `json:"public"`
	Scheduled int64 `json:"scheduled"`
	Private   int64 `json:"private"`
}

type UserStats struct {
	Original int64 `json:"original"`
	Alt      int64 `json:"alt"`
	Discord  int64 `json:"discord"`
}

// PoolStats is a snapshot of the database connection pool.
type PoolStats struct {
	Size         int     `json:"size"`
	Connections  int     `json:"connections"`
	Busy         int     `json:"busy"`
	Idle         int     `json:"idle"`
	Waiting      int64   `json:"waiting"`
	WaitDuration float64 `json:"waitDuration"`
}

type AdminStats struct {
	Charts ChartStats       `json:"charts"`
	Users  UserStats        `json:"users"`
	Files  map[string]int64 `json:"files"`
	DB     PoolStats        `json:"db"`
}

type AdminDataResponse struct {
	Code string `json:"code"`
	Data struct {
		Stats *AdminStats `json:"stats"`
	} `json:"data"`
}

type ExpireDataResponse struct {
	Code string `json:"code"`
	Data struct {
		Count int64 `json:"count"`
	} `json:"data"`
}

type DiscordInfo struct {
	DisplayName *string `json:"displayName"`
	Username    *string `json:"username"`
	Avatar      *string `json:"avatar"`
}

type WarningResponse struct {
	ID         uint                `json:"id"`
	Reason     string              `json:"reason"`
	Level      models.WarningLevel `json:"level"`
	ChartTitle string              `json:"chartTitle"`
	Seen       bool                `json:"seen"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func NewWarningResponse(w *models.UserWarning) WarningResponse {
	return WarningResponse{
		ID:         w.ID,
		Reason:     w.Reason,
		Level:      w.Level,
		ChartTitle: w.ChartTitle,
		Seen:       w.Seen,
		CreatedAt:  w.CreatedAt,
	}
}

// AdminUser is the moderation view of a user. Owner is only set when the
// lookup went through an alt handle.
type AdminUser struct {
	AltUsers  []UserResponse    `json:"altUsers"`
	Discord   DiscordInfo       `json:"discord"`
	Warnings  []WarningResponse `json:"warnings"`
	WarnCount int               `json:"warnCount"`
	Owner     *UserResponse     `json:"owner"`
}

type AdminUserResponse struct {
	Code string     `json:"code"`
	User *AdminUser `json:"user"`
}
