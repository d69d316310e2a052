package services

import (
	"errors"
	"strings"

	"github.com/chartcyanvas/backend/internal/dto"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrChartNotFound = errors.New("chart not found")
)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
