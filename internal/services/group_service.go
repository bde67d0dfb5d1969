package services

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/internal/utils"
)

const defaultMemberLimit = 20

type GroupService struct {
	groupRepo   *repositories.GroupRepository
	profileRepo *repositories.ProfileRepository
}

func NewGroupService(groupRepo *repositories.GroupRepository, profileRepo *repositories.ProfileRepository) *GroupService {
	return &GroupService{
		groupRepo:   groupRepo,
		profileRepo: profileRepo,
	}
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type GroupDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CreatedBy    uint   `json:"created_by"`
	InviteToken  string `json:"invite_token"`
	InviteActive bool   `json:"invite_active"`
	MemberLimit  int    `json:"member_limit"`
	MemberCount  int    `json:"member_count"`
	CreatedAt    string `json:"created_at"`
}

type GroupMemberDTO struct {
	ID        uint   `json:"id"`
	GroupID   uint   `json:"group_id"`
	ProfileID uint   `json:"profile_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	Points    int    `json:"points"`
	JoinedAt  string `json:"joined_at"`
}

// GroupWithMembersDTO is a group plus its full, deduplicated member list.
type GroupWithMembersDTO struct {
	GroupDTO
	Members []GroupMemberDTO `json:"members"`
}

// DiscoverGroupsOptions selects one page of the public group directory.
// OrderBy is one of created_at, name, member_count.
type DiscoverGroupsOptions struct {
	Limit             int
	Offset            int
	OnlyActiveInvites bool
	OrderBy           string
	Ascending         bool
}

type DiscoverGroupsResult struct {
	Groups  []GroupWithMembersDTO `json:"groups"`
	HasMore bool                  `json:"has_more"`
	Total   int64                 `json:"total"`
}

// CreateGroup creates a group and adds the creator as its admin member with
// zero points. Invites start active with a fresh shareable token.
func (s *GroupService) CreateGroup(creatorID uint, req *CreateGroupRequest) (*GroupDTO, error) {
	if len(req.Name) < 1 || len(req.Name) > 50 {
		return nil, errors.New("group name length invalid")
	}

	group := &models.Group{
		Name:         req.Name,
		Description:  req.Description,
		CreatedBy:    creatorID,
		InviteToken:  uuid.New().String(),
		InviteActive: true,
		MemberLimit:  defaultMemberLimit,
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	member := &models.GroupMember{
		GroupID:   group.ID,
		ProfileID: creatorID,
		Role:      "admin",
		Points:    0,
	}
	if err := s.groupRepo.AddMember(member); err != nil {
		return nil, err
	}

	dto := toGroupDTO(group, 1)
	return &dto, nil
}

// ListMemberships returns the caller's groups, each with its member list
// deduplicated by profile id (the join can surface a member once per path
// it was reached through).
func (s *GroupService) ListMemberships(profileID uint) ([]GroupWithMembersDTO, error) {
	groups, err := s.groupRepo.GetUserGroups(profileID)
	if err != nil {
		return nil, err
	}

	out := make([]GroupWithMembersDTO, 0, len(groups))
	for i := range groups {
		out = append(out, toGroupWithMembersDTO(&groups[i]))
	}
	return out, nil
}

// ListDiscoverable returns one page of groups. Ordering by member count is
// applied here after the fetch, since each page already materializes full
// member arrays; the sort is stable so equal-sized groups keep their
// arrival order.
func (s *GroupService) ListDiscoverable(opts DiscoverGroupsOptions) (*DiscoverGroupsResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	groups, total, err := s.groupRepo.ListGroups(opts.Limit, opts.Offset, opts.OnlyActiveInvites, opts.OrderBy, opts.Ascending)
	if err != nil {
		return nil, err
	}

	dtos := make([]GroupWithMembersDTO, 0, len(groups))
	for i := range groups {
		dtos = append(dtos, toGroupWithMembersDTO(&groups[i]))
	}

	if opts.OrderBy == "member_count" {
		sort.SliceStable(dtos, func(i, j int) bool {
			if opts.Ascending {
				return len(dtos[i].Members) < len(dtos[j].Members)
			}
			return len(dtos[i].Members) > len(dtos[j].Members)
		})
	}

	return &DiscoverGroupsResult{
		Groups:  dtos,
		HasMore: int64(opts.Offset+opts.Limit) < total,
		Total:   total,
	}, nil
}

// GetGroupWithMemberCount returns a single group with its member count.
func (s *GroupService) GetGroupWithMemberCount(groupID uint) (*GroupDTO, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, errors.New("group not found")
	}
	count, err := s.groupRepo.CountMembers(group.ID)
	if err != nil {
		return nil, err
	}
	dto := toGroupDTO(group, int(count))
	return &dto, nil
}

// GetGroupMembers returns a group's members, deduplicated by profile id.
func (s *GroupService) GetGroupMembers(groupID uint) ([]GroupMemberDTO, error) {
	members, err := s.groupRepo.GetMembers(groupID)
	if err != nil {
		return nil, err
	}
	return dedupedMemberDTOs(members), nil
}

// Leaderboard returns a group's members ordered by points descending.
// The sort is stable: members with equal points keep their arrival order.
func (s *GroupService) Leaderboard(groupID uint) ([]GroupMemberDTO, error) {
	members, err := s.GetGroupMembers(groupID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Points > members[j].Points
	})
	return members, nil
}

func toGroupDTO(group *models.Group, memberCount int) GroupDTO {
	return GroupDTO{
		ID:           group.ID,
		Name:         group.Name,
		Description:  group.Description,
		CreatedBy:    group.CreatedBy,
		InviteToken:  group.InviteToken,
		InviteActive: group.InviteActive,
		MemberLimit:  group.MemberLimit,
		MemberCount:  memberCount,
		CreatedAt:    group.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toGroupWithMembersDTO(group *models.Group) GroupWithMembersDTO {
	members := dedupedMemberDTOs(group.Members)
	return GroupWithMembersDTO{
		GroupDTO: toGroupDTO(group, len(members)),
		Members:  members,
	}
}

func dedupedMemberDTOs(members []models.GroupMember) []GroupMemberDTO {
	deduped := utils.DedupeByKey(members, func(m models.GroupMember) uint {
		return m.ProfileID
	})

	out := make([]GroupMemberDTO, 0, len(deduped))
	for _, m := range deduped {
		dto := GroupMemberDTO{
			ID:        m.ID,
			GroupID:   m.GroupID,
			ProfileID: m.ProfileID,
			Role:      m.Role,
			Points:    m.Points,
			JoinedAt:  m.JoinedAt.Format("2006-01-02 15:04:05"),
		}
		if m.Profile != nil {
			dto.Username = m.Profile.Username
			dto.AvatarURL = m.Profile.AvatarURL
		}
		out = append(out, dto)
	}
	return out
}
