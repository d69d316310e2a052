package models

import "time"

type Chart struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Composer    string     `gorm:"size:255" json:"composer"`
	Artist      string     `gorm:"size:255" json:"artist"`
	Rating      int        `gorm:"not null;default:0" json:"rating"`
	Visibility  Visibility `gorm:"size:16;not null;default:'private';index" json:"visibility"`
	Genre       Genre      `gorm:"not null;default:0" json:"genre"`
	AuthorID    uint       `gorm:"not null;index" json:"-"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"-"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
