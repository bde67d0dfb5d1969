package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a friend group that pints are shared into.
type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string        `gorm:"not null" json:"name"`
	Description  string        `json:"description"`
	CreatedBy    uint          `gorm:"not null" json:"created_by"`
	InviteToken  string        `gorm:"uniqueIndex;not null" json:"invite_token"`
	InviteActive bool          `gorm:"default:true" json:"invite_active"`
	MemberLimit  int           `gorm:"default:20" json:"member_limit"`
	Creator      *Profile      `gorm:"foreignKey:CreatedBy" json:"-"`
	Members      []GroupMember `gorm:"foreignKey:GroupID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}
