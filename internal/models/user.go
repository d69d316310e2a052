package models

import "time"

// User is either a primary account or an alt owned by one (OwnerID set).
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Handle             string    `gorm:"size:32;not null;uniqueIndex" json:"handle"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	AboutMe            string    `gorm:"type:text" json:"aboutMe"`
	BgColor            string    `gorm:"size:16" json:"bgColor"`
	FgColor            string    `gorm:"size:16" json:"fgColor"`
	OwnerID            *uint     `gorm:"index" json:"-"`
	Admin              bool      `gorm:"not null;default:false" json:"-"`
	DiscordID          *string   `gorm:"size:32;index" json:"-"`
	DiscordThreadID    *string   `gorm:"size:32" json:"-"`
	DiscordDisplayName *string   `gorm:"size:255" json:"-"`
	DiscordUsername    *string   `gorm:"size:255" json:"-"`
	DiscordAvatar      *string   `gorm:"size:255" json:"-"`
	WarnCount          int       `gorm:"not null;default:0" json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (u *User) IsAlt() bool {
	return u.OwnerID != nil
}

func (u *User) String() string {
	return u.Name + "#" + u.Handle
}
