package services

import (
	"fmt"

	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/internal/storage"
)

type ProfileService struct {
	profileRepo *repositories.ProfileRepository
	store       *storage.ObjectStore
	bucket      string
}

func NewProfileService(profileRepo *repositories.ProfileRepository, store *storage.ObjectStore, bucket string) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		store:       store,
		bucket:      bucket,
	}
}

// UploadProfilePic stores the avatar at <id>/<id>.jpg (always jpg, always
// overwriting the previous one) and points the profile at the new URL.
func (s *ProfileService) UploadProfilePic(profileID uint, data []byte) (string, error) {
	key := fmt.Sprintf("%d/%d.jpg", profileID, profileID)

	if err := s.store.Upload(s.bucket, key, data, true); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	avatarURL := s.store.PublicURL(s.bucket, key)
	if err := s.profileRepo.UpdateAvatarURL(profileID, avatarURL); err != nil {
		return "", fmt.Errorf("failed to update avatar url: %w", err)
	}
	return avatarURL, nil
}

// GetProfilePic returns the avatar URL for a profile, empty when unset.
func (s *ProfileService) GetProfilePic(profileID uint) (string, error) {
	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return "", err
	}
	return profile.AvatarURL, nil
}
