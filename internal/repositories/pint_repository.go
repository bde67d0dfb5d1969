package repositories

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
)

const dailyFlagKeyPrefix = "pint:today:" // Redis String "1", expires at local midnight

type PintRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewPintRepository(db *gorm.DB, redis *redis.Client) *PintRepository {
	return &PintRepository{db: db, redis: redis}
}

func (r *PintRepository) Create(pint *models.Pint) error {
	return r.db.Create(pint).Error
}

// ListAll returns every pint, newest first.
func (r *PintRepository) ListAll() ([]models.Pint, error) {
	var pints []models.Pint
	err := r.db.Preload("User").Order("created_at DESC").Find(&pints).Error
	return pints, err
}

func (r *PintRepository) ListByGroup(groupID uint) ([]models.Pint, error) {
	var pints []models.Pint
	err := r.db.Where("group_id = ?", groupID).
		Preload("User").
		Order("created_at DESC").
		Find(&pints).Error
	return pints, err
}

// ListByUsers returns pints by any of the given users, newest first,
// optionally restricted to [dayStart, dayEnd).
func (r *PintRepository) ListByUsers(userIDs []uint, dayStart, dayEnd *time.Time) ([]models.Pint, error) {
	if len(userIDs) == 0 {
		return []models.Pint{}, nil
	}

	query := r.db.Where("user_id IN ?", userIDs)
	if dayStart != nil && dayEnd != nil {
		query = query.Where("created_at >= ? AND created_at < ?", *dayStart, *dayEnd)
	}

	var pints []models.Pint
	err := query.Preload("User").Order("created_at DESC").Find(&pints).Error
	return pints, err
}

// CountByUserBetween counts a user's pints in [start, end).
func (r *PintRepository) CountByUserBetween(userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Pint{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&count).Error
	return count, err
}

// HasUploadedToday reports whether the user already shared a pint during
// the current local calendar day. The positive answer is cached in Redis
// until midnight; the database date-range query is the source of truth.
func (r *PintRepository) HasUploadedToday(userID uint, now time.Time) (bool, error) {
	key := r.dailyFlagKey(userID, now)
	if r.redis != nil {
		if val, err := r.redis.Get(context.Background(), key).Result(); err == nil && val == "1" {
			return true, nil
		}
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	count, err := r.CountByUserBetween(userID, start, end)
	if err != nil {
		return false, err
	}

	if count > 0 && r.redis != nil {
		r.redis.Set(context.Background(), key, "1", end.Sub(now))
	}
	return count > 0, nil
}

// MarkUploadedToday sets the daily flag after a successful share so the
// next HasUploadedToday skips the database.
func (r *PintRepository) MarkUploadedToday(userID uint, now time.Time) {
	if r.redis == nil {
		return
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	r.redis.Set(context.Background(), r.dailyFlagKey(userID, now), "1", midnight.Sub(now))
}

func (r *PintRepository) dailyFlagKey(userID uint, now time.Time) string {
	return fmt.Sprintf("%s%d:%s", dailyFlagKeyPrefix, userID, now.Format("2006-01-02"))
}
