package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
	"github.com/robvandam12/breus-sub011/pkg/core/services"
)

type evaluateRequest struct {
	ResourceIDs         []string `json:"resourceIds"`
	Date                string   `json:"date"`
	ExcludeAssignmentID string   `json:"excludeAssignmentId"`
}

// AvailabilityResponse is the current published status of the checker.
type AvailabilityResponse struct {
	AvailabilityStatus   model.StatusMap `json:"availabilityStatus"`
	CheckingAvailability bool            `json:"checkingAvailability"`
	Generation           uint64          `json:"generation"`
}

// PostEvaluate handles POST /api/availability/evaluate. The check runs in
// the background; poll GET /api/availability for the result.
func (h *Handler) PostEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Date != "" {
		if _, err := model.ParseDate(req.Date); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var resources []model.Resource
	if len(req.ResourceIDs) > 0 {
		var err error
		resources, err = services.ResolveResources(c.Request.Context(), h.roster, req.ResourceIDs)
		var unknown *services.UnknownResourcesError
		switch {
		case errors.As(err, &unknown):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "unknownIds": unknown.IDs})
			return
		case err != nil:
			h.logger.Error("Failed to resolve resources", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roster"})
			return
		}
	}

	h.checker.Evaluate(resources, req.Date, req.ExcludeAssignmentID)

	c.JSON(http.StatusAccepted, gin.H{"generation": h.checker.Generation()})
}

// GetAvailability handles GET /api/availability.
func (h *Handler) GetAvailability(c *gin.Context) {
	c.JSON(http.StatusOK, AvailabilityResponse{
		AvailabilityStatus:   h.checker.Status(),
		CheckingAvailability: h.checker.Checking(),
		Generation:           h.checker.Generation(),
	})
}
