package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/internal/services"
)

type PintHandler struct {
	PintService *services.PintService
}

func NewPintHandler(pintService *services.PintService) *PintHandler {
	return &PintHandler{
		PintService: pintService,
	}
}

// Feed returns the global feed, newest first.
func (h *PintHandler) Feed(c *gin.Context) {
	pints, err := h.PintService.GetAllPints()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pints": pints})
}

// GroupFeed returns one group's feed, newest first.
func (h *PintHandler) GroupFeed(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	pints, err := h.PintService.GetGroupPints(uint(groupID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pints": pints})
}

// FriendsFeed returns pints shared by the caller's accepted friends.
// ?today=true restricts it to the current local calendar day.
func (h *PintHandler) FriendsFeed(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	todayOnly := c.DefaultQuery("today", "false") == "true"

	pints, err := h.PintService.GetFriendsPints(profileID, todayOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pints": pints})
}

// UploadedToday reports whether the caller has already shared a pint today.
func (h *PintHandler) UploadedToday(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	uploaded, err := h.PintService.HasUploadedToday(profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"has_uploaded_today": uploaded})
}
