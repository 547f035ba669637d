package services

import (
	"context"
	"testing"

	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Upsert(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Supplier), args.Error(1)
}

func TestProfitabilityAveragesMargins(t *testing.T) {
	mockMenuRepo := new(MockMenuRepository)
	mockWasteRepo := new(MockWasteRepository)

	mockMenuRepo.On("List", mock.Anything).Return([]models.MenuItem{
		{ID: uuid.New(), Name: "Sopa", Price: 4, Cost: 1},   // margin 0.75
		{ID: uuid.New(), Name: "Jugo", Price: 2, Cost: 1.5}, // margin 0.25
	}, nil)
	mockWasteRepo.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]models.WasteRecord{{LossValue: 12.5}}, nil)

	service := NewReportService(mockMenuRepo, new(MockOrderRepository), new(MockInventoryRepository), mockWasteRepo, new(MockSupplierRepository))

	report, err := service.Profitability(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	require.InDelta(t, 0.5, report.AverageMargin, 0.0001)
	require.InDelta(t, 12.5, report.MonthlyWasteLoss, 0.0001)
}

func TestDashboardAggregatesCountsAndValuation(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockInvRepo := new(MockInventoryRepository)
	mockWasteRepo := new(MockWasteRepository)
	mockSupplierRepo := new(MockSupplierRepository)

	mockOrderRepo.On("CountByStatus", mock.Anything, models.StatusPending).Return(int64(4), nil)
	mockOrderRepo.On("CountByStatus", mock.Anything, models.StatusPreparing).Return(int64(2), nil)
	mockOrderRepo.On("CountByStatus", mock.Anything, models.StatusReady).Return(int64(1), nil)
	mockInvRepo.On("List", mock.Anything).Return([]models.InventoryItem{
		{Stock: 10, MinStock: 15, Cost: 2},   // critical, worth 20
		{Stock: 30, MinStock: 15, Cost: 0.5}, // worth 15
	}, nil)
	mockSupplierRepo.On("List", mock.Anything).Return([]models.Supplier{{}, {}, {}}, nil)
	mockWasteRepo.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]models.WasteRecord{}, nil)

	service := NewReportService(new(MockMenuRepository), mockOrderRepo, mockInvRepo, mockWasteRepo, mockSupplierRepo)

	summary, err := service.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), summary.PendingOrders)
	require.Equal(t, int64(2), summary.PreparingOrders)
	require.Equal(t, int64(1), summary.ReadyOrders)
	require.Equal(t, 1, summary.CriticalItems)
	require.Equal(t, 3, summary.SupplierCount)
	require.InDelta(t, 35.0, summary.InventoryValuation, 0.0001)
}
