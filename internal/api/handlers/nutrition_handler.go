package handlers

import (
	"net/http"

	"example.com/edueat/services/cafeteria/internal/api/middlewares"
	"example.com/edueat/services/cafeteria/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NutritionHandler serves per-child nutrition summaries
type NutritionHandler struct {
	nutritionService *services.NutritionService
}

// NewNutritionHandler creates a new nutrition handler
func NewNutritionHandler(nutritionService *services.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// HandleChildSummary aggregates a child's intake for the requesting parent
func (h *NutritionHandler) HandleChildSummary(c *gin.Context) {
	parentID, err := middlewares.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	childName := c.Param("child")
	if childName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "child name is required"})
		return
	}

	summary, err := h.nutritionService.Summary(c, parentID, childName)
	if err != nil {
		log.Error().Err(err).Str("child_name", childName).Msg("Failed to build nutrition summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build nutrition summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RegisterParentRoutes registers the nutrition routes
func (h *NutritionHandler) RegisterParentRoutes(group *gin.RouterGroup) {
	group.GET("/nutrition/:child", h.HandleChildSummary)
}
