package services

import (
	"errors"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/internal/utils"
	"github.com/gabrielvps/PintClub/middleware/jwt"
)

type AuthService struct {
	ProfileRepo *repositories.ProfileRepository
	Tokens      *jwt.TokenManager
}

func NewAuthService(profileRepo *repositories.ProfileRepository, tokens *jwt.TokenManager) *AuthService {
	return &AuthService{
		ProfileRepo: profileRepo,
		Tokens:      tokens,
	}
}

// SignUpRequest creates an account plus its public profile.
type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	ProfileID uint   `json:"profile_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Token     string `json:"token"`
}

func (s *AuthService) SignUp(req *SignUpRequest) (*SessionResponse, error) {
	if !utils.ValidateUsername(req.Username) {
		return nil, errors.New("invalid username format")
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, errors.New("password must be at least 8 characters")
	}

	existsUsername, err := s.ProfileRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if existsUsername {
		return nil, errors.New("username already exists")
	}

	existsEmail, err := s.ProfileRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existsEmail {
		return nil, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := s.ProfileRepo.Create(profile); err != nil {
		return nil, err
	}

	token, err := s.Tokens.GenerateToken(profile.ID, profile.Username, profile.Email)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{
		ProfileID: profile.ID,
		Username:  profile.Username,
		Email:     profile.Email,
		Token:     token,
	}, nil
}

func (s *AuthService) SignIn(req *SignInRequest) (*SessionResponse, error) {
	profile, err := s.ProfileRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !utils.CheckPassword(profile.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}

	token, err := s.Tokens.GenerateToken(profile.ID, profile.Username, profile.Email)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{
		ProfileID: profile.ID,
		Username:  profile.Username,
		Email:     profile.Email,
		AvatarURL: profile.AvatarURL,
		Token:     token,
	}, nil
}

// Me returns the authenticated profile.
func (s *AuthService) Me(profileID uint) (*models.Profile, error) {
	return s.ProfileRepo.GetByID(profileID)
}
