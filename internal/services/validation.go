package services

import (
	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/chartcyanvas/backend/internal/models"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/duke-git/lancet/v2/strutil"
)

const (
	msgBlank       = "can't be blank"
	msgNotIncluded = "is not included in the list"
)

func validateDeleteChart(req *dto.DeleteChartRequest) error {
	var fields []dto.FieldError
	if strutil.IsBlank(req.Name) {
		fields = append(fields, dto.FieldError{Field: "name", Message: msgBlank})
	}
	if strutil.IsBlank(req.Reason) {
		fields = append(fields, dto.FieldError{Field: "reason", Message: msgBlank})
	}
	if !slice.Contain(models.WarningLevels, models.WarningLevel(req.Level)) {
		fields = append(fields, dto.FieldError{Field: "level", Message: msgNotIncluded})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
