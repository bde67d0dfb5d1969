package models

import (
	"time"

	"gorm.io/gorm"
)

// Friend statuses.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// Friend is a directed friendship row; a request is pending until the
// receiving side accepts it.
type Friend struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_user_friend" json:"user_id"`
	FriendID  uint           `gorm:"not null;uniqueIndex:idx_user_friend" json:"friend_id"`
	Status    string         `gorm:"default:pending" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Friend) TableName() string {
	return "friends"
}
