package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
)

const (
	profileCacheKeyPrefix = "profile:info:" // Redis String, profile JSON
	profileCacheTTL       = 1 * time.Hour
)

type ProfileRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProfileRepository(db *gorm.DB, redis *redis.Client) *ProfileRepository {
	return &ProfileRepository{db: db, redis: redis}
}

func (r *ProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetByID fetches a profile, read-through cached in Redis.
func (r *ProfileRepository) GetByID(id uint) (*models.Profile, error) {
	if r.redis != nil {
		key := fmt.Sprintf("%s%d", profileCacheKeyPrefix, id)
		val, err := r.redis.Get(context.Background(), key).Result()
		if err == nil {
			var profile models.Profile
			if json.Unmarshal([]byte(val), &profile) == nil {
				return &profile, nil
			}
		}
	}

	var profile models.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		key := fmt.Sprintf("%s%d", profileCacheKeyPrefix, id)
		if data, err := json.Marshal(&profile); err == nil {
			r.redis.Set(context.Background(), key, data, profileCacheTTL)
		}
	}

	return &profile, nil
}

func (r *ProfileRepository) GetByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateAvatarURL sets the avatar and drops the stale cache entry.
func (r *ProfileRepository) UpdateAvatarURL(id uint, avatarURL string) error {
	if err := r.db.Model(&models.Profile{}).Where("id = ?", id).Update("avatar_url", avatarURL).Error; err != nil {
		return err
	}
	if r.redis != nil {
		key := fmt.Sprintf("%s%d", profileCacheKeyPrefix, id)
		r.redis.Del(context.Background(), key)
	}
	return nil
}
