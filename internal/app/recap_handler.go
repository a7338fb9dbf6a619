package app

import (
	"net/http"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

type RecapHandler struct {
	recapService service.RecapService
}

func NewRecapHandler(recapService service.RecapService) *RecapHandler {
	return &RecapHandler{recapService: recapService}
}

// GenerateRecap generates a recap for the authenticated user. Without an
// explicit window the past thirty days are used.
// POST /api/v1/recaps
func (h *RecapHandler) GenerateRecap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		WindowStart *time.Time `json:"window_start,omitempty"`
		WindowEnd   *time.Time `json:"window_end,omitempty"`
	}
	// An empty body means the default window
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.BadRequest(c, err.Error())
			return
		}
	}

	var (
		recap *model.Recap
		err   error
	)
	if req.WindowStart != nil && req.WindowEnd != nil {
		if !req.WindowStart.Before(*req.WindowEnd) {
			util.BadRequest(c, "window_start must be before window_end")
			return
		}
		recap, err = h.recapService.GenerateRecap(userID, *req.WindowStart, *req.WindowEnd)
	} else if req.WindowStart != nil || req.WindowEnd != nil {
		util.BadRequest(c, "window_start and window_end must be provided together")
		return
	} else {
		recap, err = h.recapService.GenerateMonthlyRecap(userID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Recap generated successfully", gin.H{"recap": recap})
}

// GetRecaps lists the authenticated user's recap history
// GET /api/v1/recaps
func (h *RecapHandler) GetRecaps(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, offset := paginationParams(c, 10)

	recaps, total, err := h.recapService.GetRecaps(userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Recaps retrieved successfully", gin.H{
		"recaps": recaps,
		"total":  total,
	})
}

// GetLatestRecap returns the authenticated user's most recent recap
// GET /api/v1/recaps/latest
func (h *RecapHandler) GetLatestRecap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recap, err := h.recapService.GetLatestRecap(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Recap retrieved successfully", gin.H{"recap": recap})
}
