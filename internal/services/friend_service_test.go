package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
)

func newFriendService(t *testing.T) (*FriendService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewFriendService(
		repositories.NewFriendRepository(db),
		repositories.NewProfileRepository(db, nil),
	), db
}

func TestFriendRequestLifecycle(t *testing.T) {
	svc, db := newFriendService(t)
	gabriel := createProfile(t, db, "gabriel")
	marina := createProfile(t, db, "marina")

	require.NoError(t, svc.SendFriendRequest(gabriel.ID, marina.ID))

	// Neither side sees an accepted friendship yet
	friends, err := svc.ListFriends(gabriel.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	require.NoError(t, svc.AcceptFriendRequest(marina.ID, gabriel.ID))

	// Both sides now see the friendship
	friends, err = svc.ListFriends(gabriel.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, marina.ID, friends[0].FriendID)

	friends, err = svc.ListFriends(marina.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, gabriel.ID, friends[0].FriendID)
}

func TestSendFriendRequest_Conflicts(t *testing.T) {
	svc, db := newFriendService(t)
	gabriel := createProfile(t, db, "gabriel")
	marina := createProfile(t, db, "marina")

	assert.Error(t, svc.SendFriendRequest(gabriel.ID, gabriel.ID), "cannot befriend yourself")
	assert.Error(t, svc.SendFriendRequest(gabriel.ID, 999), "target must exist")

	require.NoError(t, svc.SendFriendRequest(gabriel.ID, marina.ID))
	assert.Error(t, svc.SendFriendRequest(gabriel.ID, marina.ID), "no duplicate requests")
}

func TestRejectFriendRequest(t *testing.T) {
	svc, db := newFriendService(t)
	gabriel := createProfile(t, db, "gabriel")
	marina := createProfile(t, db, "marina")

	require.NoError(t, svc.SendFriendRequest(gabriel.ID, marina.ID))
	require.NoError(t, svc.RejectFriendRequest(marina.ID, gabriel.ID))

	var count int64
	require.NoError(t, db.Model(&models.Friend{}).Count(&count).Error)
	assert.Zero(t, count, "rejection removes the pending row")

	// Gabriel can ask again after a rejection
	assert.NoError(t, svc.SendFriendRequest(gabriel.ID, marina.ID))
}

func TestAcceptFriendRequest_Errors(t *testing.T) {
	svc, db := newFriendService(t)
	gabriel := createProfile(t, db, "gabriel")
	marina := createProfile(t, db, "marina")

	assert.Error(t, svc.AcceptFriendRequest(marina.ID, gabriel.ID), "nothing pending")

	require.NoError(t, svc.SendFriendRequest(gabriel.ID, marina.ID))
	require.NoError(t, svc.AcceptFriendRequest(marina.ID, gabriel.ID))
	assert.Error(t, svc.AcceptFriendRequest(marina.ID, gabriel.ID), "already answered")
}

func TestSearchProfile(t *testing.T) {
	svc, db := newFriendService(t)
	createProfile(t, db, "gabriel")

	profile, err := svc.SearchProfile("gabriel")
	require.NoError(t, err)
	assert.Equal(t, "gabriel", profile.Username)

	_, err = svc.SearchProfile("ninguem")
	assert.Error(t, err)
}
