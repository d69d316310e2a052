package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserWarning records a moderation action. Rows are written once and never
// edited by the moderation flow.
type UserWarning struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;index" json:"-"`
	ModeratorID uint         `gorm:"not null;index" json:"-"`
	Reason      string       `gorm:"type:text;not null" json:"reason"`
	Level       WarningLevel `gorm:"size:16;not null" json:"level"`
	ChartTitle  string       `gorm:"size:255" json:"chartTitle"`
	Seen        bool         `gorm:"not null;default:false" json:"seen"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (w *UserWarning) BeforeCreate(tx *gorm.DB) error {
	if !w.Level.Valid() {
		return fmt.Errorf("invalid warning level %q", w.Level)
	}
	return nil
}

// AfterCreate bumps the target's warn_count inside the create transaction.
func (w *UserWarning) AfterCreate(tx *gorm.DB) error {
	return tx.Model(&User{}).
		Where("id = ?", w.UserID).
		UpdateColumn("warn_count", gorm.Expr("warn_count + ?", 1)).Error
}
