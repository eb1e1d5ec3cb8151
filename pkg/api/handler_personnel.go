package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// dateQuery reads ?date=, returning false after writing a 400 if it is malformed
func dateQuery(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return "", true
	}
	if _, err := model.ParseDate(date); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return date, true
}

// GetConflicts handles GET /api/personnel/conflicts. With ?date= it rescans
// that date first; without it returns the last scan.
func (h *Handler) GetConflicts(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}

	var conflicts []model.Conflict
	if date != "" {
		conflicts = h.scanner.Scan(c.Request.Context(), date)
	} else {
		conflicts = h.scanner.Conflicts()
	}

	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}

// GetUserConflict handles GET /api/personnel/conflicts/:userId.
func (h *Handler) GetUserConflict(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	if date != "" {
		h.scanner.Scan(c.Request.Context(), date)
	}

	c.JSON(http.StatusOK, gin.H{"conflict": h.scanner.CheckUserConflict(c.Param("userId"))})
}

// GetAvailablePersonnel handles GET /api/personnel/available?date=&role=.
func (h *Handler) GetAvailablePersonnel(c *gin.Context) {
	date, ok := dateQuery(c)
	if !ok {
		return
	}
	if date == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	role := model.Role(c.Query("role"))
	if role != "" && !role.IsValid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "role must be diver or supervisor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"personnel": h.scanner.ListAvailablePersonnel(c.Request.Context(), date, role)})
}
