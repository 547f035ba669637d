package services

import (
	"context"
	"time"

	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ItemProfitability reports margin figures for one menu item
type ItemProfitability struct {
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
	Price  float64   `json:"price"`
	Cost   float64   `json:"cost"`
	Margin float64   `json:"margin"`
}

// ProfitabilityReport covers the whole menu plus the month's waste impact
type ProfitabilityReport struct {
	Items            []ItemProfitability `json:"items"`
	AverageMargin    float64             `json:"average_margin"`
	MonthlyWasteLoss float64             `json:"monthly_waste_loss"`
}

// DashboardSummary is the staff landing-page snapshot
type DashboardSummary struct {
	PendingOrders      int64   `json:"pending_orders"`
	PreparingOrders    int64   `json:"preparing_orders"`
	ReadyOrders        int64   `json:"ready_orders"`
	CriticalItems      int     `json:"critical_items"`
	SupplierCount      int     `json:"supplier_count"`
	InventoryValuation float64 `json:"inventory_valuation"`
	MonthlyWasteLoss   float64 `json:"monthly_waste_loss"`
}

// ReportService derives staff-facing reports from the other repositories
type ReportService struct {
	menuRepo      repositories.MenuRepository
	orderRepo     repositories.OrderRepository
	inventoryRepo repositories.InventoryRepository
	wasteRepo     repositories.WasteRepository
	supplierRepo  repositories.SupplierRepository
}

// NewReportService creates a new report service
func NewReportService(
	menuRepo repositories.MenuRepository,
	orderRepo repositories.OrderRepository,
	inventoryRepo repositories.InventoryRepository,
	wasteRepo repositories.WasteRepository,
	supplierRepo repositories.SupplierRepository,
) *ReportService {
	return &ReportService{
		menuRepo:      menuRepo,
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		wasteRepo:     wasteRepo,
		supplierRepo:  supplierRepo,
	}
}

// Profitability reports per-item margins, the menu-wide average margin
// and the accumulated waste loss over the last thirty days.
func (s *ReportService) Profitability(ctx context.Context) (*ProfitabilityReport, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load menu for profitability report")
	}

	report := &ProfitabilityReport{}
	var marginSum float64
	for _, item := range items {
		margin := item.Margin()
		report.Items = append(report.Items, ItemProfitability{
			ItemID: item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Cost:   item.Cost,
			Margin: margin,
		})
		marginSum += margin
	}
	if len(items) > 0 {
		report.AverageMargin = marginSum / float64(len(items))
	}

	loss, err := s.monthlyWasteLoss(ctx)
	if err != nil {
		return nil, err
	}
	report.MonthlyWasteLoss = loss
	return report, nil
}

// Dashboard assembles the staff overview: live order counts, inventory
// health and supplier stats.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	counts := []struct {
		status models.OrderStatus
		dest   *int64
	}{
		{models.StatusPending, &summary.PendingOrders},
		{models.StatusPreparing, &summary.PreparingOrders},
		{models.StatusReady, &summary.ReadyOrders},
	}
	for _, c := range counts {
		n, err := s.orderRepo.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, errors.Wrap(err, "failed to count orders for dashboard")
		}
		*c.dest = n
	}

	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load inventory for dashboard")
	}
	for _, item := range items {
		if item.Critical() {
			summary.CriticalItems++
		}
		summary.InventoryValuation += item.Stock * item.Cost
	}

	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load suppliers for dashboard")
	}
	summary.SupplierCount = len(suppliers)

	loss, err := s.monthlyWasteLoss(ctx)
	if err != nil {
		return nil, err
	}
	summary.MonthlyWasteLoss = loss
	return summary, nil
}

func (s *ReportService) monthlyWasteLoss(ctx context.Context) (float64, error) {
	records, err := s.wasteRepo.ListSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return 0, errors.Wrap(err, "failed to load waste records")
	}
	var total float64
	for _, record := range records {
		total += record.LossValue
	}
	return total, nil
}
