package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupMember links a profile to a group. Points is the running leaderboard
// total for that member, incremented when their shared pints land.
type GroupMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	GroupID   uint           `gorm:"not null;uniqueIndex:idx_group_profile" json:"group_id"`
	ProfileID uint           `gorm:"not null;uniqueIndex:idx_group_profile" json:"profile_id"`
	Role      string         `gorm:"default:member" json:"role"` // admin, member
	Points    int            `gorm:"default:0" json:"points"`
	JoinedAt  time.Time      `json:"joined_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Group   *Group   `gorm:"foreignKey:GroupID" json:"-"`
	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
