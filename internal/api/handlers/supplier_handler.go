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

// SupplierHandler handles supplier-directory HTTP requests
type SupplierHandler struct {
	supplierService *services.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// SupplierRequest is the payload for creating or updating a supplier
type SupplierRequest struct {
	ID           *uuid.UUID `json:"id"`
	Name         string     `json:"name" binding:"required"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Category     string     `json:"category"`
	DeliveryDays []string   `json:"delivery_days"`
}

// HandleListSuppliers returns the supplier directory
func (h *SupplierHandler) HandleListSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list suppliers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// HandleGetSupplier returns one supplier
func (h *SupplierHandler) HandleGetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	supplier, err := h.supplierService.GetSupplier(c, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
			return
		}
		log.Error().Err(err).Str("supplier_id", id.String()).Msg("Failed to get supplier")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// HandleSaveSupplier creates or updates a supplier
func (h *SupplierHandler) HandleSaveSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier := &models.Supplier{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Category:     req.Category,
		DeliveryDays: req.DeliveryDays,
	}
	if req.ID != nil {
		supplier.ID = *req.ID
	}

	if err := h.supplierService.SaveSupplier(c, supplier); err != nil {
		log.Error().Err(err).Msg("Failed to save supplier")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// RegisterStaffRoutes registers the supplier routes
func (h *SupplierHandler) RegisterStaffRoutes(group *gin.RouterGroup) {
	group.GET("/suppliers", h.HandleListSuppliers)
	group.GET("/suppliers/:id", h.HandleGetSupplier)
	group.POST("/suppliers", h.HandleSaveSupplier)
	group.PUT("/suppliers", h.HandleSaveSupplier)
}
