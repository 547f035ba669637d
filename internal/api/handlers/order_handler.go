package handlers

import (
	"context"
	"net/http"
	"time"

	"example.com/edueat/services/cafeteria/internal/api/middlewares"
	"example.com/edueat/services/cafeteria/internal/cart"
	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/services"
	"example.com/edueat/services/cafeteria/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const scheduledDateLayout = "2006-01-02"

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *services.OrderService
	tracer       tracing.Tracer
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, tracer tracing.Tracer) *OrderHandler {
	return &OrderHandler{orderService: orderService, tracer: tracer}
}

// OrderLineRequest is one cart line in a submission
type OrderLineRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	Notes      string    `json:"notes"`
}

// SubmitOrderRequest is the order-submission payload
type SubmitOrderRequest struct {
	ChildName     string             `json:"child_name" binding:"required"`
	ScheduledDate string             `json:"scheduled_date" binding:"required"`
	Lines         []OrderLineRequest `json:"lines" binding:"required"`
}

// HandleSubmitOrder turns the request's lines into a cart and submits it
func (h *OrderHandler) HandleSubmitOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-submit-order")
	defer h.tracer.EndTransaction(txn)

	parentID, err := middlewares.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledDate, err := time.ParseInLocation(scheduledDateLayout, req.ScheduledDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_date must be YYYY-MM-DD"})
		return
	}

	submission := cart.New()
	for _, line := range req.Lines {
		submission.Add(line.MenuItemID, line.Notes)
		if line.Quantity > 1 {
			submission.AdjustQuantity(line.MenuItemID, line.Notes, line.Quantity-1)
		}
	}

	order, err := h.orderService.SubmitOrder(c, parentID, req.ChildName, scheduledDate, submission)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrPastDate):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("Failed to submit order")
			h.tracer.RecordError(txn, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit order"})
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

// HandleListOwnOrders returns the authenticated parent's orders
func (h *OrderHandler) HandleListOwnOrders(c *gin.Context) {
	parentID, err := middlewares.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.orderService.ListParentOrders(c, parentID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// HandleKitchenBoard returns active orders grouped by status
func (h *OrderHandler) HandleKitchenBoard(c *gin.Context) {
	board, err := h.orderService.KitchenBoard(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load kitchen board")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load kitchen board"})
		return
	}
	c.JSON(http.StatusOK, board)
}

// HandleAdvanceOrder moves an order to its next status
func (h *OrderHandler) HandleAdvanceOrder(c *gin.Context) {
	h.transition(c, h.orderService.AdvanceOrder)
}

// HandleCancelOrder cancels an active order
func (h *OrderHandler) HandleCancelOrder(c *gin.Context) {
	h.transition(c, h.orderService.CancelOrder)
}

func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*models.Order, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := op(c, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, models.ErrTerminalStatus):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Str("order_id", id.String()).Msg("Order transition failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// HandleSearchOrders runs a free-text order search
func (h *OrderHandler) HandleSearchOrders(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	results, err := h.orderService.SearchOrders(c, term)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Order search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// RegisterParentRoutes registers the parent-facing routes
func (h *OrderHandler) RegisterParentRoutes(group *gin.RouterGroup) {
	group.POST("/orders", h.HandleSubmitOrder)
	group.GET("/orders", h.HandleListOwnOrders)
}

// RegisterStaffRoutes registers the staff-facing routes
func (h *OrderHandler) RegisterStaffRoutes(group *gin.RouterGroup) {
	group.GET("/orders", h.HandleKitchenBoard)
	group.GET("/orders/search", h.HandleSearchOrders)
	group.POST("/orders/:id/advance", h.HandleAdvanceOrder)
	group.POST("/orders/:id/cancel", h.HandleCancelOrder)
}
