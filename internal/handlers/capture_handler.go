package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/internal/capture"
	"github.com/gabrielvps/PintClub/internal/services"
)

// maxPhotoSize bounds a single camera frame upload.
const maxPhotoSize = 10 << 20

// CaptureHandler exposes the capture-and-share workflow. Each user has at
// most one live session; every mutation returns the updated snapshot so the
// client can render without a follow-up read.
type CaptureHandler struct {
	Manager      *capture.Manager
	GroupService *services.GroupService
	PintService  *services.PintService
}

func NewCaptureHandler(manager *capture.Manager, groupService *services.GroupService, pintService *services.PintService) *CaptureHandler {
	return &CaptureHandler{
		Manager:      manager,
		GroupService: groupService,
		PintService:  pintService,
	}
}

// Start opens a fresh capture session loaded with the caller's groups,
// replacing any previous one.
func (h *CaptureHandler) Start(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	memberships, err := h.GroupService.ListMemberships(profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	groups := make([]capture.GroupOption, 0, len(memberships))
	for _, g := range memberships {
		groups = append(groups, capture.GroupOption{ID: g.ID, Name: g.Name})
	}

	session := h.Manager.Start(profileID, groups)
	c.JSON(http.StatusCreated, session.Snapshot())
}

// session resolves the caller's live session or writes the error response.
func (h *CaptureHandler) session(c *gin.Context) *capture.Session {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}

	session := h.Manager.Get(profileID)
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active capture session"})
		return nil
	}
	return session
}

// Get returns the current session snapshot.
func (h *CaptureHandler) Get(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Photo records one camera frame from the multipart "photo" field. Which
// side it lands on follows the session's active facing.
func (h *CaptureHandler) Photo(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing photo"})
		return
	}
	if file.Size > maxPhotoSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable photo"})
		return
	}
	defer src.Close()

	frame, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable photo"})
		return
	}

	session.CapturePhoto(frame)
	c.JSON(http.StatusOK, session.Snapshot())
}

// ToggleFacing flips the active camera side without capturing.
func (h *CaptureHandler) ToggleFacing(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	session.ToggleFacing()
	c.JSON(http.StatusOK, session.Snapshot())
}

// Location stores the resolved street and city for the session.
func (h *CaptureHandler) Location(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req struct {
		Street string `json:"street"`
		City   string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session.SetLocation(req.Street, req.City)
	c.JSON(http.StatusOK, session.Snapshot())
}

// OpenPicker and ClosePicker toggle the group picker overlay.
func (h *CaptureHandler) OpenPicker(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	session.OpenGroupPicker()
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *CaptureHandler) ClosePicker(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	session.CloseGroupPicker()
	c.JSON(http.StatusOK, session.Snapshot())
}

// SelectGroup picks the share target from the caller's memberships.
func (h *CaptureHandler) SelectGroup(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	if err := session.SelectGroup(uint(groupID)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Details sets the quantity and drink type for the pending share.
func (h *CaptureHandler) Details(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req struct {
		Quantity  int    `json:"quantity"`
		DrinkType string `json:"drink_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Quantity != 0 {
		if err := session.SelectQuantity(req.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.DrinkType != "" {
		if err := session.SelectDrinkType(req.DrinkType); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// DrinkTypes lists the labels offered by the drink picker.
func (h *CaptureHandler) DrinkTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"drink_types": capture.DrinkTypes})
}

// Share submits the captured round: both photos are uploaded and exactly
// one post is created in the selected group. A failed share keeps the
// photos so the client can retry.
func (h *CaptureHandler) Share(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	pint, err := session.Share(h.PintService, h.PintService)
	if err != nil {
		switch {
		case errors.Is(err, capture.ErrGroupRequired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, capture.ErrNotReady):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
		case errors.Is(err, capture.ErrShareInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pint": pint, "session": session.Snapshot()})
}

// Reset discards the captured photos after explicit confirmation.
func (h *CaptureHandler) Reset(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := session.ResetToCamera(req.Confirmed); err != nil {
		switch {
		case errors.Is(err, capture.ErrConfirmationRequired):
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error()})
		case errors.Is(err, capture.ErrShareInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// End discards the caller's session entirely.
func (h *CaptureHandler) End(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.Manager.End(profileID)
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}
