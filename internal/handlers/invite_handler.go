package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/internal/services"
)

type InviteHandler struct {
	InviteService *services.InviteService
	LinkBaseURL   string
}

func NewInviteHandler(inviteService *services.InviteService, linkBaseURL string) *InviteHandler {
	return &InviteHandler{
		InviteService: inviteService,
		LinkBaseURL:   linkBaseURL,
	}
}

// SendByUsername creates a pending invite for a named user.
func (h *InviteHandler) SendByUsername(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	invite, err := h.InviteService.SendGroupInviteByUsername(uint(groupID), req.Username, profileID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyGroupMember), errors.Is(err, services.ErrInviteAlreadySent):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// Link returns the shareable deep link for a group.
func (h *InviteHandler) Link(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	link, err := h.InviteService.InviteLink(h.LinkBaseURL, uint(groupID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_link": link})
}

// Preview resolves an invite token into a group card. Anonymous viewers are
// allowed; a viewer who already belongs to the group gets a conflict with
// the group id so the client can navigate there instead.
func (h *InviteHandler) Preview(c *gin.Context) {
	viewerID, _ := currentProfileID(c)

	preview, err := h.InviteService.GetGroupByToken(c.Param("token"), viewerID)
	if err != nil {
		var conflict *services.MembershipConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "group_id": conflict.GroupID})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// Join joins the group behind an invite token.
func (h *InviteHandler) Join(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	group, err := h.InviteService.JoinGroupViaInvite(c.Param("token"), profileID)
	if err != nil {
		var conflict *services.MembershipConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "group_id": conflict.GroupID})
		case errors.Is(err, services.ErrGroupFull):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInviteInactive):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_id": group.ID, "name": group.Name})
}

// ListPending returns the caller's open, unexpired invites.
func (h *InviteHandler) ListPending(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	invites, err := h.InviteService.ListPendingInvites(profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// Respond accepts or declines a pending invite.
func (h *InviteHandler) Respond(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	inviteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invite id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.InviteService.RespondToInvite(uint(inviteID), profileID, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupFull):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInviteExpired):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
