package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the account row: authentication credentials plus the public
// identity (username, avatar) shown on feeds and leaderboards.
type Profile struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	AvatarURL    string `json:"avatar_url,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}
