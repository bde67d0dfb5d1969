package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/internal/capture"
	"github.com/gabrielvps/PintClub/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
	Sessions    *capture.Manager
}

func NewAuthHandler(authService *services.AuthService, sessions *capture.Manager) *AuthHandler {
	return &AuthHandler{
		AuthService: authService,
		Sessions:    sessions,
	}
}

// currentProfileID reads the profile injected by the auth middleware.
func currentProfileID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("profile_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	req := services.SignUpRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.AuthService.SignUp(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	req := services.SignInRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.AuthService.SignIn(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SignOut discards the caller's server-side capture session. Tokens are
// stateless, so the client drops its copy and the token simply expires.
func (h *AuthHandler) SignOut(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if h.Sessions != nil {
		h.Sessions.End(profileID)
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.AuthService.Me(profileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_id": profile.ID,
		"username":   profile.Username,
		"email":      profile.Email,
		"avatar_url": profile.AvatarURL,
	})
}
