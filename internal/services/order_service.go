package services

import (
	"context"
	"time"

	"example.com/edueat/services/cafeteria/internal/cache"
	"example.com/edueat/services/cafeteria/internal/cart"
	"example.com/edueat/services/cafeteria/internal/messaging"
	"example.com/edueat/services/cafeteria/internal/metrics"
	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/search"
	"example.com/edueat/services/cafeteria/internal/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyCart is returned when a submission is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPastDate is returned when the scheduled date is today or earlier.
	// The cart is left untouched so the caller can pick a new date.
	ErrPastDate = errors.New("scheduled date must be after today")
)

// OrderService handles the order lifecycle: submission from a cart,
// kitchen status transitions and cancellation.
type OrderService struct {
	orderRepo     repositories.OrderRepository
	menuRepo      repositories.MenuRepository
	cache         *cache.RedisCache
	publisher     messaging.Publisher
	elasticClient *search.ElasticClient
	metrics       *metrics.Metrics
	tracer        tracing.Tracer
}

// NewOrderService creates a new order service. The cache, publisher and
// elastic client may be nil; the service then skips the corresponding
// side effects.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	menuRepo repositories.MenuRepository,
	cache *cache.RedisCache,
	publisher messaging.Publisher,
	elasticClient *search.ElasticClient,
	m *metrics.Metrics,
	tracer tracing.Tracer,
) *OrderService {
	if tracer == nil {
		tracer = tracing.NewDisabledTracer()
	}
	return &OrderService{
		orderRepo:     orderRepo,
		menuRepo:      menuRepo,
		cache:         cache,
		publisher:     publisher,
		elasticClient: elasticClient,
		metrics:       m,
		tracer:        tracer,
	}
}

// SubmitOrder turns a cart into a stored order scheduled for a future day.
// Line names and unit prices are snapshotted from the current catalog so
// later menu edits never change the stored total. On success the cart is
// cleared; on any rejection it is preserved.
func (s *OrderService) SubmitOrder(ctx context.Context, parentID uuid.UUID, childName string, scheduledDate time.Time, c *cart.Cart) (*models.Order, error) {
	txn := s.tracer.StartTransaction("submit-order")
	defer s.tracer.EndTransaction(txn)

	if c.IsEmpty() {
		s.countRejection()
		return nil, ErrEmptyCart
	}
	if !afterToday(scheduledDate, time.Now()) {
		s.countRejection()
		return nil, ErrPastDate
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to load menu catalog")
	}
	catalog := make(map[uuid.UUID]models.MenuItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}

	order := &models.Order{
		ID:            uuid.New(),
		ParentID:      parentID,
		ChildName:     childName,
		Status:        models.StatusPending,
		ScheduledDate: scheduledDate,
	}
	for _, line := range c.Lines() {
		item, ok := catalog[line.MenuItemID]
		if !ok {
			// A stale cart line whose item left the menu prices at zero,
			// matching the cart's own total arithmetic.
			log.Warn().
				Str("menu_item_id", line.MenuItemID.String()).
				Msg("Cart line references an item no longer on the menu")
		}
		order.Lines = append(order.Lines, models.OrderLine{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   line.Quantity,
			Notes:      line.Notes,
		})
		order.Total += item.Price * float64(line.Quantity)
	}

	span := s.tracer.StartSpan("create-order", txn)
	err = s.orderRepo.Create(ctx, order)
	span.End()
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to create order")
	}

	c.Clear()
	if s.metrics != nil {
		s.metrics.IncrementCounter(metrics.CounterOrdersSubmitted)
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("parent_id", parentID.String()).
		Str("child_name", childName).
		Float64("total", order.Total).
		Msg("Order submitted successfully")

	s.notifyOrderChange(ctx, order, messaging.EventOrderCreated)
	return order, nil
}

// AdvanceOrder moves an order one step along the kitchen flow
// Pendiente -> Preparando -> Listo -> Entregado. Finished orders refuse
// further transitions.
func (s *OrderService) AdvanceOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	txn := s.tracer.StartTransaction("advance-order")
	defer s.tracer.EndTransaction(txn)

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := order.Status.Next()
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, next); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to update order status")
	}
	order.Status = next

	if s.metrics != nil {
		s.metrics.IncrementCounter(metrics.CounterOrdersAdvanced)
	}
	log.Info().
		Str("order_id", id.String()).
		Str("status", string(next)).
		Msg("Order advanced")

	s.notifyOrderChange(ctx, order, messaging.EventOrderStatusChanged)
	return order, nil
}

// CancelOrder marks an order Cancelado. Cancellation sits outside the
// linear flow and is refused only once the order is already finished.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	txn := s.tracer.StartTransaction("cancel-order")
	defer s.tracer.EndTransaction(txn)

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, models.ErrTerminalStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, models.StatusCancelled); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to cancel order")
	}
	order.Status = models.StatusCancelled

	if s.metrics != nil {
		s.metrics.IncrementCounter(metrics.CounterOrdersCancelled)
	}
	log.Info().Str("order_id", id.String()).Msg("Order cancelled")

	s.notifyOrderChange(ctx, order, messaging.EventOrderCancelled)
	return order, nil
}

// GetOrder returns a single order with its lines
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListParentOrders returns all orders placed by a parent, newest first
func (s *OrderService) ListParentOrders(ctx context.Context, parentID uuid.UUID) ([]models.Order, error) {
	return s.orderRepo.ListByParent(ctx, parentID)
}

// KitchenBoard returns active orders grouped by status for the staff view
func (s *OrderService) KitchenBoard(ctx context.Context) (map[models.OrderStatus][]models.Order, error) {
	board := make(map[models.OrderStatus][]models.Order)
	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusPreparing, models.StatusReady} {
		orders, err := s.orderRepo.ListByStatus(ctx, status)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load kitchen board")
		}
		board[status] = orders
	}
	return board, nil
}

// SearchOrders runs a free-text search over indexed orders
func (s *OrderService) SearchOrders(ctx context.Context, term string) ([]map[string]interface{}, error) {
	if s.elasticClient == nil {
		return nil, nil
	}
	return s.elasticClient.SearchOrders(ctx, term)
}

// IndexOrder indexes a single order for search; used by the worker when
// consuming order events.
func (s *OrderService) IndexOrder(ctx context.Context, id uuid.UUID) error {
	if s.elasticClient == nil {
		return nil
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.elasticClient.IndexOrder(ctx, order)
}

// ReindexRecentOrders re-indexes orders created in the given window as a
// fallback for missed bus events.
func (s *OrderService) ReindexRecentOrders(ctx context.Context, window time.Duration) error {
	if s.elasticClient == nil {
		return nil
	}
	orders, err := s.orderRepo.ListCreatedSince(ctx, time.Now().Add(-window))
	if err != nil {
		return errors.Wrap(err, "failed to list recent orders")
	}
	for i := range orders {
		if err := s.elasticClient.IndexOrder(ctx, &orders[i]); err != nil {
			log.Error().
				Err(err).
				Str("order_id", orders[i].ID.String()).
				Msg("Failed to reindex order")
		}
	}
	log.Info().Msgf("Reindexed %d recent orders", len(orders))
	return nil
}

func (s *OrderService) countRejection() {
	if s.metrics != nil {
		s.metrics.IncrementCounter(metrics.CounterOrdersRejected)
	}
}

// notifyOrderChange publishes the change on Redis and the service bus.
// Both are best effort; a notification failure never fails the write.
func (s *OrderService) notifyOrderChange(ctx context.Context, order *models.Order, eventType string) {
	now := time.Now()

	if s.cache != nil {
		err := s.cache.Publish(ctx, cache.ChannelOrders, cache.ChangeEvent{
			Collection: "orders",
			EntityID:   order.ID,
			Action:     eventType,
			Time:       now,
		})
		if err != nil {
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("Failed to publish order change event")
		}
		if err := s.cache.Delete(ctx, cache.OrderCacheKey(order.ID)); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("Failed to invalidate order cache")
		}
	}

	if s.publisher != nil {
		err := s.publisher.PublishOrderEvent(ctx, messaging.OrderEvent{
			EventType:     eventType,
			OrderID:       order.ID,
			ParentID:      order.ParentID,
			ChildName:     order.ChildName,
			Status:        order.Status,
			Total:         order.Total,
			ScheduledDate: order.ScheduledDate,
			Time:          now,
		})
		if err != nil {
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("Failed to publish order event to service bus")
		}
	}
}

// afterToday reports whether the scheduled date falls on a later calendar
// day than now, in now's location. Same-day ordering is rejected.
func afterToday(scheduled, now time.Time) bool {
	y1, m1, d1 := scheduled.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, now.Location())
	candidate := time.Date(y1, m1, d1, 0, 0, 0, 0, now.Location())
	return candidate.After(today)
}
