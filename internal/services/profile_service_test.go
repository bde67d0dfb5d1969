package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/internal/storage"
)

func TestUploadProfilePic(t *testing.T) {
	db := setupTestDB(t)
	store, err := storage.NewObjectStore(t.TempDir(), "http://localhost:8080/media")
	require.NoError(t, err)

	profileRepo := repositories.NewProfileRepository(db, nil)
	svc := NewProfileService(profileRepo, store, "avatars")

	gabriel := createProfile(t, db, "gabriel")

	url, err := svc.UploadProfilePic(gabriel.ID, []byte("first-avatar"))
	require.NoError(t, err)
	expected := fmt.Sprintf("http://localhost:8080/media/avatars/%d/%d.jpg", gabriel.ID, gabriel.ID)
	assert.Equal(t, expected, url)

	stored, err := svc.GetProfilePic(gabriel.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, stored)

	// Uploading again replaces the previous picture under the same key
	_, err = svc.UploadProfilePic(gabriel.ID, []byte("second-avatar"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Root(), "avatars",
		fmt.Sprintf("%d", gabriel.ID), fmt.Sprintf("%d.jpg", gabriel.ID)))
	require.NoError(t, err)
	assert.Equal(t, []byte("second-avatar"), data)
}

func TestGetProfilePic_Unset(t *testing.T) {
	db := setupTestDB(t)
	store, err := storage.NewObjectStore(t.TempDir(), "http://localhost:8080/media")
	require.NoError(t, err)

	svc := NewProfileService(repositories.NewProfileRepository(db, nil), store, "avatars")
	gabriel := createProfile(t, db, "gabriel")

	url, err := svc.GetProfilePic(gabriel.ID)
	require.NoError(t, err)
	assert.Empty(t, url)

	_, err = svc.GetProfilePic(999)
	assert.Error(t, err)
}
