package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(invite *models.GroupInvite) error {
	return r.db.Create(invite).Error
}

func (r *InviteRepository) GetByID(id uint) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	if err := r.db.First(&invite, id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// GetPendingByGroupAndUser finds an open invite for a user in a group, used
// to refuse duplicate sends.
func (r *InviteRepository) GetPendingByGroupAndUser(groupID, invitedUserID uint) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := r.db.Where("group_id = ? AND invited_user_id = ? AND status = ?",
		groupID, invitedUserID, models.InviteStatusPending).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListPendingByUser returns a user's open, unexpired invites with the group
// and the inviter profile attached.
func (r *InviteRepository) ListPendingByUser(invitedUserID uint, now time.Time) ([]models.GroupInvite, error) {
	var invites []models.GroupInvite
	err := r.db.
		Where("invited_user_id = ? AND status = ? AND expires_at > ?",
			invitedUserID, models.InviteStatusPending, now).
		Preload("Group").
		Preload("Inviter").
		Find(&invites).Error
	return invites, err
}

// UpdateStatus records the response on an invite owned by invitedUserID.
// Returns gorm.ErrRecordNotFound when the invite does not belong to them.
func (r *InviteRepository) UpdateStatus(inviteID, invitedUserID uint, status string, respondedAt time.Time) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := r.db.Where("id = ? AND invited_user_id = ?", inviteID, invitedUserID).First(&invite).Error
	if err != nil {
		return nil, err
	}

	invite.Status = status
	invite.RespondedAt = &respondedAt
	if err := r.db.Save(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}
