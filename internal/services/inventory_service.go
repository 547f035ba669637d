package services

import (
	"context"
	"time"

	"example.com/edueat/services/cafeteria/internal/metrics"
	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"
	"example.com/edueat/services/cafeteria/internal/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNonPositiveQuantity is returned when a waste record carries a
// quantity of zero or less.
var ErrNonPositiveQuantity = errors.New("waste quantity must be positive")

// ExpiryReport buckets inventory items by how close they are to expiry
type ExpiryReport struct {
	Overdue    []models.InventoryItem `json:"overdue"`
	NearExpiry []models.InventoryItem `json:"near_expiry"`
}

// InventoryService handles supply stock levels, waste recording and
// expiry tracking.
type InventoryService struct {
	inventoryRepo repositories.InventoryRepository
	wasteRepo     repositories.WasteRepository
	metrics       *metrics.Metrics
	tracer        tracing.Tracer
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventoryRepo repositories.InventoryRepository,
	wasteRepo repositories.WasteRepository,
	m *metrics.Metrics,
	tracer tracing.Tracer,
) *InventoryService {
	if tracer == nil {
		tracer = tracing.NewDisabledTracer()
	}
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		wasteRepo:     wasteRepo,
		metrics:       m,
		tracer:        tracer,
	}
}

// SaveItem creates or updates an inventory item
func (s *InventoryService) SaveItem(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return s.inventoryRepo.Upsert(ctx, item)
}

// GetItem returns a single inventory item
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return s.inventoryRepo.GetByID(ctx, id)
}

// ListItems returns the whole inventory
func (s *InventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.inventoryRepo.List(ctx)
}

// AdjustStock applies a signed delta to an item's stock. The stored
// quantity is clamped at zero, so any over-withdrawal leaves the item
// empty rather than negative.
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) (*models.InventoryItem, error) {
	txn := s.tracer.StartTransaction("adjust-stock")
	defer s.tracer.EndTransaction(txn)

	if err := s.inventoryRepo.AdjustStock(ctx, id, delta); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementCounter(metrics.CounterStockAdjustments)
	}

	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("item_id", id.String()).
		Float64("delta", delta).
		Float64("stock", item.Stock).
		Msg("Stock adjusted")
	return item, nil
}

// RecordWaste appends a waste record and decrements the item's stock in
// the same transaction. The loss value is quantity times the item's
// current unit cost, captured at recording time.
func (s *InventoryService) RecordWaste(ctx context.Context, itemID uuid.UUID, quantity float64, reason models.WasteReason) (*models.WasteRecord, error) {
	txn := s.tracer.StartTransaction("record-waste")
	defer s.tracer.EndTransaction(txn)

	if quantity <= 0 {
		return nil, ErrNonPositiveQuantity
	}

	item, err := s.inventoryRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	record := &models.WasteRecord{
		ID:        uuid.New(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		Quantity:  quantity,
		Reason:    reason,
		Date:      time.Now(),
		LossValue: quantity * item.Cost,
	}
	if err := s.wasteRepo.Append(ctx, record); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to record waste")
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(metrics.CounterWasteRecords)
	}
	log.Info().
		Str("item_id", itemID.String()).
		Str("reason", string(reason)).
		Float64("quantity", quantity).
		Float64("loss_value", record.LossValue).
		Msg("Waste recorded")
	return record, nil
}

// ListWaste returns all waste records, newest first
func (s *InventoryService) ListWaste(ctx context.Context) ([]models.WasteRecord, error) {
	return s.wasteRepo.List(ctx)
}

// WasteLossSince sums the loss value of waste recorded on or after the
// given instant.
func (s *InventoryService) WasteLossSince(ctx context.Context, since time.Time) (float64, error) {
	records, err := s.wasteRepo.ListSince(ctx, since)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, record := range records {
		total += record.LossValue
	}
	return total, nil
}

// CriticalItems returns items whose stock has fallen below their minimum
func (s *InventoryService) CriticalItems(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var critical []models.InventoryItem
	for _, item := range items {
		if item.Critical() {
			critical = append(critical, item)
		}
	}
	return critical, nil
}

// ExpiryScan classifies the inventory by expiry proximity and, when a
// metrics collector is attached, refreshes the expiry gauges. The worker
// runs this on a schedule; the API serves it on demand.
func (s *InventoryService) ExpiryScan(ctx context.Context, now time.Time) (*ExpiryReport, error) {
	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ExpiryReport{}
	var critical int64
	for _, item := range items {
		switch item.Expiry(now) {
		case models.ExpiryOverdue:
			report.Overdue = append(report.Overdue, item)
		case models.ExpiryNear:
			report.NearExpiry = append(report.NearExpiry, item)
		}
		if item.Critical() {
			critical++
		}
	}

	if s.metrics != nil {
		s.metrics.SetGauge(metrics.GaugeOverdueItems, int64(len(report.Overdue)))
		s.metrics.SetGauge(metrics.GaugeNearExpiryItems, int64(len(report.NearExpiry)))
		s.metrics.SetGauge(metrics.GaugeCriticalItems, critical)
	}
	return report, nil
}
