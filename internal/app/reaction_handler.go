package app

import (
	"net/http"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionService service.ReactionService
}

func NewReactionHandler(reactionService service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// CreateReaction adds a reaction to a post or comment
// POST /api/v1/reactions
func (h *ReactionHandler) CreateReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	reaction, err := h.reactionService.CreateReaction(userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Reaction created successfully", gin.H{"reaction": reaction})
}

// GetReactionsByTarget lists the reactions on a post or comment
// GET /api/v1/reactions?target_type=post&target_id=...
func (h *ReactionHandler) GetReactionsByTarget(c *gin.Context) {
	targetType := c.Query("target_type")
	targetID := c.Query("target_id")
	if targetType == "" || targetID == "" {
		util.BadRequest(c, "target_type and target_id are required")
		return
	}

	reactions, err := h.reactionService.GetReactionsByTarget(targetType, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reactions retrieved successfully", gin.H{"reactions": reactions})
}

// GetReactionCount returns the number of reactions on a target
// GET /api/v1/reactions/count?target_type=post&target_id=...
func (h *ReactionHandler) GetReactionCount(c *gin.Context) {
	targetType := c.Query("target_type")
	targetID := c.Query("target_id")
	if targetType == "" || targetID == "" {
		util.BadRequest(c, "target_type and target_id are required")
		return
	}

	count, err := h.reactionService.GetReactionCount(targetType, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reaction count retrieved successfully", gin.H{"count": count})
}

// UpdateReaction changes the content of a reaction owned by the
// authenticated user
// PUT /api/v1/reactions/:id
func (h *ReactionHandler) UpdateReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reactionID := c.Param("id")
	if reactionID == "" {
		util.BadRequest(c, "Reaction ID is required")
		return
	}

	var req service.UpdateReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	reaction, err := h.reactionService.UpdateReaction(userID, reactionID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reaction updated successfully", gin.H{"reaction": reaction})
}

// DeleteReaction removes a reaction owned by the authenticated user
// DELETE /api/v1/reactions/:id
func (h *ReactionHandler) DeleteReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reactionID := c.Param("id")
	if reactionID == "" {
		util.BadRequest(c, "Reaction ID is required")
		return
	}

	if err := h.reactionService.DeleteReaction(userID, reactionID); err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reaction deleted successfully", nil)
}
