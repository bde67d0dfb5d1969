package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/middleware/jwt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	profileRepo := repositories.NewProfileRepository(db, nil)
	return NewAuthService(profileRepo, jwt.NewTokenManager("test-secret", 24))
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newAuthService(t)

	session, err := svc.SignUp(&SignUpRequest{
		Username: "gabriel",
		Email:    "gabriel@example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)
	assert.NotZero(t, session.ProfileID)
	assert.NotEmpty(t, session.Token)

	// The issued token carries the profile
	claims, err := jwt.NewTokenManager("test-secret", 24).ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ProfileID, claims.ProfileID)
	assert.Equal(t, "gabriel", claims.Username)

	signedIn, err := svc.SignIn(&SignInRequest{
		Email:    "gabriel@example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)
	assert.Equal(t, session.ProfileID, signedIn.ProfileID)
	assert.NotEmpty(t, signedIn.Token)
}

func TestSignUp_Validation(t *testing.T) {
	svc := newAuthService(t)

	tests := []struct {
		name string
		req  SignUpRequest
	}{
		{"short username", SignUpRequest{Username: "ab", Email: "a@example.com", Password: "12345678"}},
		{"bad email", SignUpRequest{Username: "gabriel", Email: "not-an-email", Password: "12345678"}},
		{"short password", SignUpRequest{Username: "gabriel", Email: "a@example.com", Password: "1234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(&tt.req)
			assert.Error(t, err)
		})
	}
}

func TestSignUp_Duplicates(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.SignUp(&SignUpRequest{Username: "gabriel", Email: "gabriel@example.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.SignUp(&SignUpRequest{Username: "gabriel", Email: "other@example.com", Password: "12345678"})
	assert.Error(t, err, "username must be unique")

	_, err = svc.SignUp(&SignUpRequest{Username: "gabriel2", Email: "gabriel@example.com", Password: "12345678"})
	assert.Error(t, err, "email must be unique")
}

func TestSignIn_WrongCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.SignUp(&SignUpRequest{Username: "gabriel", Email: "gabriel@example.com", Password: "correcthorse"})
	require.NoError(t, err)

	_, err = svc.SignIn(&SignInRequest{Email: "gabriel@example.com", Password: "wronghorse"})
	assert.Error(t, err)

	_, err = svc.SignIn(&SignInRequest{Email: "nobody@example.com", Password: "correcthorse"})
	assert.Error(t, err)
}
