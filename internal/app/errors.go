package app

import (
	"errors"
	"net/http"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates service sentinel errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrNotAuthorized):
		util.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrSelfRequest):
		util.ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrContentRejected),
		errors.Is(err, service.ErrPastScheduleTime):
		util.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, service.ErrDependency):
		util.ErrorResponse(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
	}
}

// currentUserID pulls the authenticated user from the context set by
// AuthMiddleware. The bool is false when the request is unauthenticated.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return "", false
	}
	return userID.(string), true
}
