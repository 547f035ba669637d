package handlers

import (
	"net/http"

	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MenuHandler handles catalog HTTP requests
type MenuHandler struct {
	menuService *services.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// MenuItemRequest is the staff payload for creating or updating an item
type MenuItemRequest struct {
	ID          *uuid.UUID          `json:"id"`
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Price       float64             `json:"price" binding:"required"`
	Cost        float64             `json:"cost"`
	Category    models.MenuCategory `json:"category" binding:"required"`
	Available   bool                `json:"available"`
	ImageURL    string              `json:"image_url"`
	Calories    float64             `json:"calories"`
	Protein     float64             `json:"protein"`
	Carbs       float64             `json:"carbs"`
	Fat         float64             `json:"fat"`
	Ingredients []string            `json:"ingredients"`
	Tags        []string            `json:"tags"`
}

// HandleListMenu returns the catalog, optionally filtered by category
func (h *MenuHandler) HandleListMenu(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		items, err := h.menuService.ListByCategory(c, models.MenuCategory(category))
		if err != nil {
			log.Error().Err(err).Str("category", category).Msg("Failed to list menu by category")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list menu"})
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	items, err := h.menuService.ListMenu(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list menu")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list menu"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleGetMenuItem returns one catalog item
func (h *MenuHandler) HandleGetMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	item, err := h.menuService.GetItem(c, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}
		log.Error().Err(err).Str("item_id", id.String()).Msg("Failed to get menu item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get menu item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleSaveMenuItem creates or updates a catalog item
func (h *MenuHandler) HandleSaveMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Category:    req.Category,
		Available:   req.Available,
		ImageURL:    req.ImageURL,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
	}
	if req.ID != nil {
		item.ID = *req.ID
	}

	if err := h.menuService.SaveItem(c, item); err != nil {
		log.Error().Err(err).Msg("Failed to save menu item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save menu item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// RegisterParentRoutes registers the public catalog routes
func (h *MenuHandler) RegisterParentRoutes(group *gin.RouterGroup) {
	group.GET("/menu", h.HandleListMenu)
	group.GET("/menu/:id", h.HandleGetMenuItem)
}

// RegisterStaffRoutes registers the catalog-management routes
func (h *MenuHandler) RegisterStaffRoutes(group *gin.RouterGroup) {
	group.POST("/menu", h.HandleSaveMenuItem)
	group.PUT("/menu", h.HandleSaveMenuItem)
}
