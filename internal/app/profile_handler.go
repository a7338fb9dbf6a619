package app

import (
	"net/http"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetMyProfile returns the authenticated user's profile
// GET /api/v1/profiles/me
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyProfile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", gin.H{"profile": profile})
}

// GetProfile returns another user's profile. Profiles are visible to
// friends only.
// GET /api/v1/profiles/user/:userID
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	ownerID := c.Param("userID")
	if ownerID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	profile, err := h.profileService.GetProfile(viewerID, ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", gin.H{"profile": profile})
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Profile updated successfully", gin.H{"profile": profile})
}
