package services

import (
	"context"
	"testing"
	"time"

	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Upsert(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockWasteRepository struct {
	mock.Mock
}

func (m *MockWasteRepository) Append(ctx context.Context, record *models.WasteRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockWasteRepository) List(ctx context.Context) ([]models.WasteRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.WasteRecord), args.Error(1)
}

func (m *MockWasteRepository) ListSince(ctx context.Context, since time.Time) ([]models.WasteRecord, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]models.WasteRecord), args.Error(1)
}

func TestRecordWasteCapturesLossAtCurrentCost(t *testing.T) {
	mockInvRepo := new(MockInventoryRepository)
	mockWasteRepo := new(MockWasteRepository)

	item := &models.InventoryItem{
		ID:   uuid.New(),
		Name: "Leche entera",
		Cost: 0.80,
	}
	mockInvRepo.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	mockWasteRepo.On("Append", mock.Anything, mock.AnythingOfType("*models.WasteRecord")).Return(nil)

	service := NewInventoryService(mockInvRepo, mockWasteRepo, nil, nil)

	record, err := service.RecordWaste(context.Background(), item.ID, 5, models.WasteExpiry)
	require.NoError(t, err)
	require.Equal(t, "Leche entera", record.ItemName)
	require.Equal(t, models.WasteExpiry, record.Reason)
	require.InDelta(t, 4.0, record.LossValue, 0.0001)

	mockWasteRepo.AssertExpectations(t)
}

func TestRecordWasteRejectsNonPositiveQuantity(t *testing.T) {
	service := NewInventoryService(new(MockInventoryRepository), new(MockWasteRepository), nil, nil)

	_, err := service.RecordWaste(context.Background(), uuid.New(), 0, models.WasteAccident)
	require.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = service.RecordWaste(context.Background(), uuid.New(), -2, models.WasteAccident)
	require.ErrorIs(t, err, ErrNonPositiveQuantity)
}

func TestCriticalItemsUsesStrictThreshold(t *testing.T) {
	mockInvRepo := new(MockInventoryRepository)

	below := models.InventoryItem{ID: uuid.New(), Name: "Pan", Stock: 10, MinStock: 15}
	atMinimum := models.InventoryItem{ID: uuid.New(), Name: "Queso", Stock: 15, MinStock: 15}
	healthy := models.InventoryItem{ID: uuid.New(), Name: "Arroz", Stock: 40, MinStock: 15}
	mockInvRepo.On("List", mock.Anything).Return([]models.InventoryItem{below, atMinimum, healthy}, nil)

	service := NewInventoryService(mockInvRepo, new(MockWasteRepository), nil, nil)

	critical, err := service.CriticalItems(context.Background())
	require.NoError(t, err)
	require.Len(t, critical, 1)
	require.Equal(t, "Pan", critical[0].Name)
}

func TestExpiryScanBucketsByProximity(t *testing.T) {
	mockInvRepo := new(MockInventoryRepository)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	overdue := models.InventoryItem{ID: uuid.New(), Name: "Yogur", ExpiryDate: now.AddDate(0, 0, -1)}
	near := models.InventoryItem{ID: uuid.New(), Name: "Jamón", ExpiryDate: now.Add(48 * time.Hour)}
	fine := models.InventoryItem{ID: uuid.New(), Name: "Atún", ExpiryDate: now.AddDate(0, 1, 0)}
	mockInvRepo.On("List", mock.Anything).Return([]models.InventoryItem{overdue, near, fine}, nil)

	service := NewInventoryService(mockInvRepo, new(MockWasteRepository), nil, nil)

	report, err := service.ExpiryScan(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, report.Overdue, 1)
	require.Equal(t, "Yogur", report.Overdue[0].Name)
	require.Len(t, report.NearExpiry, 1)
	require.Equal(t, "Jamón", report.NearExpiry[0].Name)
}

func TestWasteLossSinceSumsRecords(t *testing.T) {
	mockWasteRepo := new(MockWasteRepository)
	since := time.Now().AddDate(0, -1, 0)

	mockWasteRepo.On("ListSince", mock.Anything, since).Return([]models.WasteRecord{
		{LossValue: 4.0},
		{LossValue: 2.5},
	}, nil)

	service := NewInventoryService(new(MockInventoryRepository), mockWasteRepo, nil, nil)

	total, err := service.WasteLossSince(context.Background(), since)
	require.NoError(t, err)
	require.InDelta(t, 6.5, total, 0.0001)
}
