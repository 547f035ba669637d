package handlers

import (
	"net/http"

	"example.com/edueat/services/cafeteria/internal/advisory"

	"github.com/gin-gonic/gin"
)

// AdvisoryHandler serves generated nutrition tips and menu suggestions.
// The advisory client never fails; it degrades to fixed fallbacks, so
// these endpoints always return 200.
type AdvisoryHandler struct {
	client *advisory.Client
}

// NewAdvisoryHandler creates a new advisory handler
func NewAdvisoryHandler(client *advisory.Client) *AdvisoryHandler {
	return &AdvisoryHandler{client: client}
}

// HandleHealthTip returns a short tip, optionally themed on a dish
func (h *AdvisoryHandler) HandleHealthTip(c *gin.Context) {
	tip := h.client.HealthTip(c, c.Query("dish"))
	c.JSON(http.StatusOK, gin.H{"tip": tip})
}

// HandleWeeklyMenu returns a suggested five-day menu
func (h *AdvisoryHandler) HandleWeeklyMenu(c *gin.Context) {
	suggestions := h.client.SuggestWeeklyMenu(c)
	c.JSON(http.StatusOK, gin.H{"menu": suggestions})
}

// RegisterParentRoutes registers the advisory routes
func (h *AdvisoryHandler) RegisterParentRoutes(group *gin.RouterGroup) {
	group.GET("/advisory/tip", h.HandleHealthTip)
	group.GET("/advisory/weekly-menu", h.HandleWeeklyMenu)
}
