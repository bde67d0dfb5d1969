package repositories

import (
	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GroupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) GetByInviteToken(token string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("invite_token = ?", token).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetUserGroups returns the groups a profile belongs to, membership join
// included, with each group's member rows and nested profiles preloaded.
func (r *GroupRepository) GetUserGroups(profileID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.
		Joins("JOIN group_members gm ON gm.group_id = groups.id AND gm.deleted_at IS NULL").
		Where("gm.profile_id = ?", profileID).
		Preload("Members").
		Preload("Members.Profile").
		Find(&groups).Error
	return groups, err
}

// ListGroups returns one page of groups with members and profiles
// preloaded, plus the unpaged total for hasMore bookkeeping. Ordering by a
// derived aggregate (member count) is left to the caller.
func (r *GroupRepository) ListGroups(limit, offset int, onlyActiveInvites bool, orderBy string, ascending bool) ([]models.Group, int64, error) {
	query := r.db.Model(&models.Group{})
	if onlyActiveInvites {
		query = query.Where("invite_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	switch orderBy {
	case "name":
		query = query.Order("name " + dir)
	default:
		query = query.Order("created_at " + dir)
	}

	var groups []models.Group
	err := query.
		Preload("Members").
		Preload("Members.Profile").
		Limit(limit).Offset(offset).
		Find(&groups).Error
	return groups, total, err
}

func (r *GroupRepository) GetMembers(groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.Where("group_id = ?", groupID).Preload("Profile").Find(&members).Error
	return members, err
}

func (r *GroupRepository) CountMembers(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (r *GroupRepository) AddMember(member *models.GroupMember) error {
	return r.db.Create(member).Error
}

func (r *GroupRepository) GetMember(groupID, profileID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.Where("group_id = ? AND profile_id = ?", groupID, profileID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AddPointsToMember atomically increments a member's running point total.
func (r *GroupRepository) AddPointsToMember(groupID, profileID uint, delta int) error {
	return r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND profile_id = ?", groupID, profileID).
		Update("points", gorm.Expr("points + ?", delta)).Error
}
