package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
)

func newGroupService(t *testing.T) (*GroupService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	groupRepo := repositories.NewGroupRepository(db)
	profileRepo := repositories.NewProfileRepository(db, nil)
	return NewGroupService(groupRepo, profileRepo), db
}

func TestCreateGroup(t *testing.T) {
	svc, db := newGroupService(t)
	creator := createProfile(t, db, "gabriel")

	group, err := svc.CreateGroup(creator.ID, &CreateGroupRequest{
		Name:        "Sexta dos Amigos",
		Description: "cerveja toda sexta",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sexta dos Amigos", group.Name)
	assert.NotEmpty(t, group.InviteToken)
	assert.True(t, group.InviteActive)
	assert.Equal(t, 20, group.MemberLimit)
	assert.Equal(t, 1, group.MemberCount)

	// The creator becomes the group's admin member with zero points
	var member models.GroupMember
	require.NoError(t, db.Where("group_id = ? AND profile_id = ?", group.ID, creator.ID).First(&member).Error)
	assert.Equal(t, "admin", member.Role)
	assert.Equal(t, 0, member.Points)
}

func TestCreateGroup_NameValidation(t *testing.T) {
	svc, db := newGroupService(t)
	creator := createProfile(t, db, "gabriel")

	_, err := svc.CreateGroup(creator.ID, &CreateGroupRequest{Name: ""})
	assert.Error(t, err)
}

func TestListMemberships(t *testing.T) {
	svc, db := newGroupService(t)
	gabriel := createProfile(t, db, "gabriel")
	marina := createProfile(t, db, "marina")

	g1, err := svc.CreateGroup(gabriel.ID, &CreateGroupRequest{Name: "Grupo A"})
	require.NoError(t, err)
	_, err = svc.CreateGroup(marina.ID, &CreateGroupRequest{Name: "Grupo B"})
	require.NoError(t, err)

	groups, err := svc.ListMemberships(gabriel.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, g1.ID, groups[0].ID)
	require.Len(t, groups[0].Members, 1)
	assert.Equal(t, "gabriel", groups[0].Members[0].Username)
}

func TestMemberDTOs_DeduplicateByProfile(t *testing.T) {
	// A query path can surface the same member twice; the DTO layer must
	// collapse duplicates to the first occurrence
	rows := []models.GroupMember{
		{ProfileID: 10, Role: "admin", Points: 0},
		{ProfileID: 20, Role: "member", Points: 50},
		{ProfileID: 10, Role: "member", Points: 5},
	}

	members := dedupedMemberDTOs(rows)
	require.Len(t, members, 2)
	assert.Equal(t, uint(10), members[0].ProfileID)
	assert.Equal(t, "admin", members[0].Role, "first occurrence wins")
	assert.Equal(t, uint(20), members[1].ProfileID)
}

func TestListDiscoverable_Pagination(t *testing.T) {
	svc, db := newGroupService(t)
	creator := createProfile(t, db, "gabriel")

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		_, err := svc.CreateGroup(creator.ID, &CreateGroupRequest{Name: name})
		require.NoError(t, err)
	}

	page1, err := svc.ListDiscoverable(DiscoverGroupsOptions{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page1.Groups, 2)
	assert.Equal(t, int64(5), page1.Total)
	assert.True(t, page1.HasMore)

	page2, err := svc.ListDiscoverable(DiscoverGroupsOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Groups, 2)
	assert.True(t, page2.HasMore)

	page3, err := svc.ListDiscoverable(DiscoverGroupsOptions{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page3.Groups, 1)
	assert.False(t, page3.HasMore, "offset+limit past total means no further page")

	// No group id appears on two pages
	seen := make(map[uint]bool)
	for _, page := range []*DiscoverGroupsResult{page1, page2, page3} {
		for _, g := range page.Groups {
			assert.False(t, seen[g.ID], "group %d repeated across pages", g.ID)
			seen[g.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestListDiscoverable_OnlyActiveInvites(t *testing.T) {
	svc, db := newGroupService(t)
	creator := createProfile(t, db, "gabriel")

	open, err := svc.CreateGroup(creator.ID, &CreateGroupRequest{Name: "Aberto"})
	require.NoError(t, err)
	closed, err := svc.CreateGroup(creator.ID, &CreateGroupRequest{Name: "Fechado"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Group{}).Where("id = ?", closed.ID).Update("invite_active", false).Error)

	result, err := svc.ListDiscoverable(DiscoverGroupsOptions{Limit: 10, OnlyActiveInvites: true})
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, open.ID, result.Groups[0].ID)
	assert.Equal(t, int64(1), result.Total)
}

func TestListDiscoverable_OrderByMemberCount(t *testing.T) {
	svc, db := newGroupService(t)
	gabriel := createProfile(t, db, "gabriel")
	marina := createProfile(t, db, "marina")
	pedro := createProfile(t, db, "pedro")

	small, err := svc.CreateGroup(gabriel.ID, &CreateGroupRequest{Name: "Pequeno"})
	require.NoError(t, err)
	big, err := svc.CreateGroup(gabriel.ID, &CreateGroupRequest{Name: "Grande"})
	require.NoError(t, err)

	groupRepo := repositories.NewGroupRepository(db)
	for _, p := range []*models.Profile{marina, pedro} {
		require.NoError(t, groupRepo.AddMember(&models.GroupMember{
			GroupID:   big.ID,
			ProfileID: p.ID,
			Role:      "member",
		}))
	}

	result, err := svc.ListDiscoverable(DiscoverGroupsOptions{Limit: 10, OrderBy: "member_count"})
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, big.ID, result.Groups[0].ID)
	assert.Equal(t, small.ID, result.Groups[1].ID)

	asc, err := svc.ListDiscoverable(DiscoverGroupsOptions{Limit: 10, OrderBy: "member_count", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, small.ID, asc.Groups[0].ID)
}

func TestLeaderboard_StableSortByPoints(t *testing.T) {
	svc, db := newGroupService(t)
	gabriel := createProfile(t, db, "gabriel")

	group, err := svc.CreateGroup(gabriel.ID, &CreateGroupRequest{Name: "Ranking"})
	require.NoError(t, err)

	groupRepo := repositories.NewGroupRepository(db)
	points := map[string]int{"marina": 50, "pedro": 30, "lia": 30, "rafa": 80}
	for _, name := range []string{"marina", "pedro", "lia", "rafa"} {
		p := createProfile(t, db, name)
		require.NoError(t, groupRepo.AddMember(&models.GroupMember{
			GroupID:   group.ID,
			ProfileID: p.ID,
			Role:      "member",
			Points:    points[name],
		}))
	}

	board, err := svc.Leaderboard(group.ID)
	require.NoError(t, err)
	require.Len(t, board, 5)

	assert.Equal(t, "rafa", board[0].Username)
	assert.Equal(t, "marina", board[1].Username)
	// Tied members keep their arrival order
	assert.Equal(t, "pedro", board[2].Username)
	assert.Equal(t, "lia", board[3].Username)
	assert.Equal(t, "gabriel", board[4].Username)

	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].Points, board[i].Points)
	}
}
