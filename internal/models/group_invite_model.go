package models

import (
	"time"

	"gorm.io/gorm"
)

// Invite statuses.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

// GroupInvite is a directed invitation to a named user, distinct from the
// group's shareable invite token.
type GroupInvite struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	GroupID         uint       `gorm:"not null;index" json:"group_id"`
	InvitedBy       uint       `gorm:"not null" json:"invited_by"`
	InvitedUserID   uint       `gorm:"not null;index" json:"invited_user_id"`
	InvitedUsername string     `json:"invited_username"`
	Status          string     `gorm:"default:pending" json:"status"`
	InvitedAt       time.Time  `json:"invited_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Group   *Group   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Inviter *Profile `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

func (GroupInvite) TableName() string {
	return "group_invites"
}
