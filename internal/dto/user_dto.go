package dto

import "github.com/chartcyanvas/backend/internal/models"

// UserResponse is the public profile shape.
type UserResponse struct {
	Handle     string `json:"handle"`
	Name       string `json:"name"`
	AboutMe    string `json:"aboutMe"`
	BgColor    string `json:"bgColor"`
	FgColor    string `json:"fgColor"`
	ChartCount int64  `json:"chartCount"`
}

func NewUserResponse(u *models.User, chartCount int64) UserResponse {
	return UserResponse{
		Handle:     u.Handle,
		Name:       u.Name,
		AboutMe:    u.AboutMe,
		BgColor:    u.BgColor,
		FgColor:    u.FgColor,
		ChartCount: chartCount,
	}
}

type UserEnvelope struct {
	Code string        `json:"code"`
	User *UserResponse `json:"user,omitempty"`
}

// SessionUser is the signed-in user as seen by the frontend.
type SessionUser struct {
	UserResponse
	Admin bool `json:"admin"`
}

type SessionEnvelope struct {
	Code string       `json:"code"`
	User *SessionUser `json:"user,omitempty"`
}
