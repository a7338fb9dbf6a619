package app

import (
	"net/http"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

type FriendshipHandler struct {
	friendshipService service.FriendshipService
}

func NewFriendshipHandler(friendshipService service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// SendFriendRequest sends a request from the authenticated user
// POST /api/v1/friendships/requests
func (h *FriendshipHandler) SendFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ToID string `json:"to_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	request, err := h.friendshipService.SendRequest(userID, req.ToID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Friend request sent successfully", gin.H{"request": request})
}

// WithdrawFriendRequest withdraws a pending request the authenticated user sent
// DELETE /api/v1/friendships/requests/:toID
func (h *FriendshipHandler) WithdrawFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	toID := c.Param("toID")
	if toID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	if err := h.friendshipService.RemoveRequest(userID, toID); err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend request withdrawn successfully", nil)
}

// AcceptFriendRequest accepts a pending request addressed to the
// authenticated user
// POST /api/v1/friendships/requests/:fromID/accept
func (h *FriendshipHandler) AcceptFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fromID := c.Param("fromID")
	if fromID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	request, err := h.friendshipService.AcceptRequest(fromID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend request accepted successfully", gin.H{"request": request})
}

// RejectFriendRequest rejects a pending request addressed to the
// authenticated user
// POST /api/v1/friendships/requests/:fromID/reject
func (h *FriendshipHandler) RejectFriendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fromID := c.Param("fromID")
	if fromID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	if err := h.friendshipService.RejectRequest(fromID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend request rejected successfully", nil)
}

// RemoveFriend dissolves an existing friendship
// DELETE /api/v1/friendships/friends/:friendID
func (h *FriendshipHandler) RemoveFriend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	friendID := c.Param("friendID")
	if friendID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	if err := h.friendshipService.RemoveFriend(userID, friendID); err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend removed successfully", nil)
}

// GetFriends lists the authenticated user's friends
// GET /api/v1/friendships/friends
func (h *FriendshipHandler) GetFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	friends, err := h.friendshipService.GetFriends(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friends retrieved successfully", gin.H{"friends": friends})
}

// GetPendingRequests lists pending requests involving the authenticated user,
// both sent and received
// GET /api/v1/friendships/requests
func (h *FriendshipHandler) GetPendingRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := h.friendshipService.GetRequests(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Pending requests retrieved successfully", gin.H{"requests": requests})
}

// GetFriendshipStatus reports whether the authenticated user is friends with
// another user
// GET /api/v1/friendships/status/:userID
func (h *FriendshipHandler) GetFriendshipStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID := c.Param("userID")
	if targetID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	friends, err := h.friendshipService.AreFriends(userID, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friendship status retrieved successfully", gin.H{"friends": friends})
}
