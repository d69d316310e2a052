package models

import "time"

// FileResource points at a blob in object storage. ChartID is nil for
// resources that outlived (or never had) a chart.
type FileResource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      FileKind  `gorm:"size:32;not null;index" json:"kind"`
	ChartID   *uint     `gorm:"index" json:"-"`
	ObjectKey string    `gorm:"size:512" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
