package services

import (
	"errors"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
)

type FriendService struct {
	friendRepo  *repositories.FriendRepository
	profileRepo *repositories.ProfileRepository
}

func NewFriendService(friendRepo *repositories.FriendRepository, profileRepo *repositories.ProfileRepository) *FriendService {
	return &FriendService{
		friendRepo:  friendRepo,
		profileRepo: profileRepo,
	}
}

// SendFriendRequest creates a pending friendship row towards friendID.
func (s *FriendService) SendFriendRequest(userID, friendID uint) error {
	if userID == friendID {
		return errors.New("cannot befriend yourself")
	}
	if _, err := s.profileRepo.GetByID(friendID); err != nil {
		return errors.New("profile not found")
	}
	if _, err := s.friendRepo.Get(userID, friendID); err == nil {
		return errors.New("friend request already exists")
	}

	return s.friendRepo.Create(&models.Friend{
		UserID:   userID,
		FriendID: friendID,
		Status:   models.FriendStatusPending,
	})
}

// AcceptFriendRequest marks the pending request from friendID as accepted
// and creates the reverse accepted row so both sides see the friendship.
func (s *FriendService) AcceptFriendRequest(userID, friendID uint) error {
	request, err := s.friendRepo.Get(friendID, userID)
	if err != nil {
		return errors.New("friend request not found")
	}
	if request.Status != models.FriendStatusPending {
		return errors.New("friend request already answered")
	}

	if err := s.friendRepo.UpdateStatus(friendID, userID, models.FriendStatusAccepted); err != nil {
		return err
	}
	if _, err := s.friendRepo.Get(userID, friendID); err != nil {
		return s.friendRepo.Create(&models.Friend{
			UserID:   userID,
			FriendID: friendID,
			Status:   models.FriendStatusAccepted,
		})
	}
	return nil
}

// RejectFriendRequest drops the pending request from friendID.
func (s *FriendService) RejectFriendRequest(userID, friendID uint) error {
	if _, err := s.friendRepo.Get(friendID, userID); err != nil {
		return errors.New("friend request not found")
	}
	return s.friendRepo.Delete(friendID, userID)
}

// ListFriends returns the caller's accepted friendships.
func (s *FriendService) ListFriends(userID uint) ([]models.Friend, error) {
	return s.friendRepo.ListAccepted(userID)
}

// SearchProfile finds a profile by exact username.
func (s *FriendService) SearchProfile(username string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUsername(username)
	if err != nil {
		return nil, errors.New("profile not found")
	}
	return profile, nil
}
