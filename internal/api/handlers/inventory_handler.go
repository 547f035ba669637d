package handlers

import (
	"net/http"
	"time"

	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// InventoryHandler handles supply-management HTTP requests
type InventoryHandler struct {
	inventoryService *services.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// InventoryItemRequest is the payload for creating or updating an item
type InventoryItemRequest struct {
	ID         *uuid.UUID            `json:"id"`
	Name       string                `json:"name" binding:"required"`
	Category   models.SupplyCategory `json:"category" binding:"required"`
	Stock      float64               `json:"stock"`
	MinStock   float64               `json:"min_stock"`
	Unit       string                `json:"unit" binding:"required"`
	Cost       float64               `json:"cost"`
	ExpiryDate time.Time             `json:"expiry_date"`
	SupplierID uuid.UUID             `json:"supplier_id"`
}

// AdjustStockRequest carries a signed stock delta
type AdjustStockRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

// WasteRequest registers a supply loss
type WasteRequest struct {
	ItemID   uuid.UUID          `json:"item_id" binding:"required"`
	Quantity float64            `json:"quantity" binding:"required"`
	Reason   models.WasteReason `json:"reason" binding:"required"`
}

// HandleListInventory returns the whole inventory
func (h *InventoryHandler) HandleListInventory(c *gin.Context) {
	items, err := h.inventoryService.ListItems(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list inventory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleSaveInventoryItem creates or updates an inventory item
func (h *InventoryHandler) HandleSaveInventoryItem(c *gin.Context) {
	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.InventoryItem{
		Name:       req.Name,
		Category:   req.Category,
		Stock:      req.Stock,
		MinStock:   req.MinStock,
		Unit:       req.Unit,
		Cost:       req.Cost,
		ExpiryDate: req.ExpiryDate,
		SupplierID: req.SupplierID,
	}
	if req.ID != nil {
		item.ID = *req.ID
	}

	if err := h.inventoryService.SaveItem(c, item); err != nil {
		log.Error().Err(err).Msg("Failed to save inventory item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save inventory item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleAdjustStock applies a signed delta to an item's stock
func (h *InventoryHandler) HandleAdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inventory item id"})
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.inventoryService.AdjustStock(c, id, req.Delta)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		log.Error().Err(err).Str("item_id", id.String()).Msg("Failed to adjust stock")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to adjust stock"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleRecordWaste registers a loss and decrements stock
func (h *InventoryHandler) HandleRecordWaste(c *gin.Context) {
	var req WasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.inventoryService.RecordWaste(c, req.ItemID, req.Quantity, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNonPositiveQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repositories.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
		default:
			log.Error().Err(err).Msg("Failed to record waste")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record waste"})
		}
		return
	}
	c.JSON(http.StatusCreated, record)
}

// HandleListWaste returns the waste ledger
func (h *InventoryHandler) HandleListWaste(c *gin.Context) {
	records, err := h.inventoryService.ListWaste(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list waste records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list waste records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// HandleExpiryReport returns overdue and near-expiry items
func (h *InventoryHandler) HandleExpiryReport(c *gin.Context) {
	report, err := h.inventoryService.ExpiryScan(c, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build expiry report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build expiry report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleCriticalItems returns items below their minimum stock
func (h *InventoryHandler) HandleCriticalItems(c *gin.Context) {
	items, err := h.inventoryService.CriticalItems(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list critical items")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list critical items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// RegisterStaffRoutes registers the inventory routes
func (h *InventoryHandler) RegisterStaffRoutes(group *gin.RouterGroup) {
	group.GET("/inventory", h.HandleListInventory)
	group.POST("/inventory", h.HandleSaveInventoryItem)
	group.POST("/inventory/:id/adjust", h.HandleAdjustStock)
	group.GET("/inventory/critical", h.HandleCriticalItems)
	group.GET("/inventory/expiry", h.HandleExpiryReport)
	group.POST("/waste", h.HandleRecordWaste)
	group.GET("/waste", h.HandleListWaste)
}
