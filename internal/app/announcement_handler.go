package app

import (
	"net/http"

	"socialnet/internal/service"
	"socialnet/internal/util"
	"socialnet/internal/websocket"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
	wsHub               *websocket.Hub
}

func NewAnnouncementHandler(announcementService service.AnnouncementService, wsHub *websocket.Hub) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		wsHub:               wsHub,
	}
}

// CreateAnnouncement publishes an announcement and pushes it to all
// connected clients
// POST /api/v1/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	announcement, err := h.announcementService.CreateAnnouncement(userID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.wsHub != nil {
		h.wsHub.BroadcastToAll(map[string]interface{}{
			"type":         "announcement",
			"announcement": announcement,
		})
	}

	util.SuccessResponse(c, http.StatusCreated, "Announcement created successfully", gin.H{"announcement": announcement})
}

// GetAnnouncements lists a user's announcements
// GET /api/v1/announcements/user/:userID
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	targetUserID := c.Param("userID")
	if targetUserID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	limit, offset := paginationParams(c, 20)

	announcements, err := h.announcementService.GetAnnouncementsByUserID(targetUserID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Announcements retrieved successfully", gin.H{"announcements": announcements})
}
