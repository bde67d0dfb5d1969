package repositories

import (
	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) Create(friend *models.Friend) error {
	return r.db.Create(friend).Error
}

func (r *FriendRepository) Get(userID, friendID uint) (*models.Friend, error) {
	var friend models.Friend
	err := r.db.Where("user_id = ? AND friend_id = ?", userID, friendID).First(&friend).Error
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *FriendRepository) UpdateStatus(userID, friendID uint, status string) error {
	return r.db.Model(&models.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Update("status", status).Error
}

// Delete removes a friendship row for good. A soft-deleted tombstone would
// keep occupying the (user_id, friend_id) unique index and block a later
// re-request, so the delete is unscoped.
func (r *FriendRepository) Delete(userID, friendID uint) error {
	return r.db.Unscoped().
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.Friend{}).Error
}

func (r *FriendRepository) ListAccepted(userID uint) ([]models.Friend, error) {
	var friends []models.Friend
	err := r.db.Where("user_id = ? AND status = ?", userID, models.FriendStatusAccepted).
		Find(&friends).Error
	return friends, err
}

// AcceptedFriendIDs returns the ids of everyone userID has an accepted
// friendship with.
func (r *FriendRepository) AcceptedFriendIDs(userID uint) ([]uint, error) {
	friends, err := r.ListAccepted(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.FriendID)
	}
	return ids, nil
}
