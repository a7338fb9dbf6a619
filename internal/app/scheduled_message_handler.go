package app

import (
	"net/http"
	"time"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

type ScheduledMessageHandler struct {
	messageService service.ScheduledMessageService
}

func NewScheduledMessageHandler(messageService service.ScheduledMessageService) *ScheduledMessageHandler {
	return &ScheduledMessageHandler{messageService: messageService}
}

// ScheduleMessage schedules a message to a set of friends
// POST /api/v1/messages
func (h *ScheduledMessageHandler) ScheduleMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Recipients    []string  `json:"recipients" binding:"required,min=1"`
		ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
		Title         string    `json:"title" binding:"required"`
		Body          string    `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	message, err := h.messageService.ScheduleMessage(userID, req.Recipients, req.ScheduledTime, req.Title, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Message scheduled successfully", gin.H{"message": message})
}

// GetScheduledMessages lists messages the authenticated user has scheduled
// GET /api/v1/messages/sent
func (h *ScheduledMessageHandler) GetScheduledMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.messageService.GetScheduledMessages(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Scheduled messages retrieved successfully", gin.H{"messages": messages})
}

// GetReceivedMessages lists delivered messages addressed to the
// authenticated user
// GET /api/v1/messages/received
func (h *ScheduledMessageHandler) GetReceivedMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.messageService.GetReceivedMessages(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Received messages retrieved successfully", gin.H{"messages": messages})
}

// DeleteScheduledMessage cancels a scheduled message before delivery
// DELETE /api/v1/messages/:id
func (h *ScheduledMessageHandler) DeleteScheduledMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messageID := c.Param("id")
	if messageID == "" {
		util.BadRequest(c, "Message ID is required")
		return
	}

	if err := h.messageService.DeleteScheduledMessage(messageID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Scheduled message deleted successfully", nil)
}
