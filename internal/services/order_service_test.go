package services

import (
	"context"
	"testing"
	"time"

	"example.com/edueat/services/cafeteria/internal/cart"
	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repositories for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByChild(ctx context.Context, parentID uuid.UUID, childName string) ([]models.Order, error) {
	args := m.Called(ctx, parentID, childName)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Upsert(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) ListByCategory(ctx context.Context, category models.MenuCategory) ([]models.MenuItem, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func newTestOrderService(orderRepo *MockOrderRepository, menuRepo *MockMenuRepository) *OrderService {
	return NewOrderService(orderRepo, menuRepo, nil, nil, nil, nil, nil)
}

func TestSubmitOrderSnapshotsCatalogPrices(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockMenuRepo := new(MockMenuRepository)

	sandwich := models.MenuItem{ID: uuid.New(), Name: "Sandwich de pollo", Price: 3.50, Category: models.CategoryLunch}
	juice := models.MenuItem{ID: uuid.New(), Name: "Jugo de naranja", Price: 1.25, Category: models.CategoryDrink}
	mockMenuRepo.On("List", mock.Anything).Return([]models.MenuItem{sandwich, juice}, nil)
	mockOrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)

	c := cart.New()
	c.Add(sandwich.ID, "")
	c.Add(sandwich.ID, "")
	c.Add(juice.ID, "sin hielo")

	service := newTestOrderService(mockOrderRepo, mockMenuRepo)
	tomorrow := time.Now().AddDate(0, 0, 1)

	order, err := service.SubmitOrder(context.Background(), uuid.New(), "Ana", tomorrow, c)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, models.StatusPending, order.Status)
	require.Len(t, order.Lines, 2)
	require.InDelta(t, 8.25, order.Total, 0.0001)
	require.Equal(t, "Sandwich de pollo", order.Lines[0].Name)
	require.Equal(t, 3.50, order.Lines[0].UnitPrice)
	require.True(t, c.IsEmpty(), "cart should be cleared after submission")

	mockOrderRepo.AssertExpectations(t)
	mockMenuRepo.AssertExpectations(t)
}

func TestSubmitOrderRejectsEmptyCart(t *testing.T) {
	service := newTestOrderService(new(MockOrderRepository), new(MockMenuRepository))

	_, err := service.SubmitOrder(context.Background(), uuid.New(), "Ana", time.Now().AddDate(0, 0, 1), cart.New())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitOrderRejectsSameDayAndPreservesCart(t *testing.T) {
	service := newTestOrderService(new(MockOrderRepository), new(MockMenuRepository))

	c := cart.New()
	c.Add(uuid.New(), "")

	_, err := service.SubmitOrder(context.Background(), uuid.New(), "Ana", time.Now(), c)
	require.ErrorIs(t, err, ErrPastDate)
	require.False(t, c.IsEmpty(), "cart must survive a rejected submission")

	_, err = service.SubmitOrder(context.Background(), uuid.New(), "Ana", time.Now().AddDate(0, 0, -3), c)
	require.ErrorIs(t, err, ErrPastDate)
	require.False(t, c.IsEmpty())
}

func TestAdvanceOrderFollowsKitchenFlow(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	id := uuid.New()

	mockOrderRepo.On("GetByID", mock.Anything, id).
		Return(&models.Order{ID: id, Status: models.StatusPending}, nil).Once()
	mockOrderRepo.On("UpdateStatus", mock.Anything, id, models.StatusPreparing).Return(nil).Once()

	service := newTestOrderService(mockOrderRepo, new(MockMenuRepository))

	order, err := service.AdvanceOrder(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.StatusPreparing, order.Status)

	mockOrderRepo.AssertExpectations(t)
}

func TestAdvanceOrderRefusesTerminalStatuses(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		mockOrderRepo := new(MockOrderRepository)
		id := uuid.New()
		mockOrderRepo.On("GetByID", mock.Anything, id).
			Return(&models.Order{ID: id, Status: status}, nil)

		service := newTestOrderService(mockOrderRepo, new(MockMenuRepository))

		_, err := service.AdvanceOrder(context.Background(), id)
		require.ErrorIs(t, err, models.ErrTerminalStatus)
	}
}

func TestCancelOrderFromAnyActiveStatus(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusPreparing, models.StatusReady} {
		mockOrderRepo := new(MockOrderRepository)
		id := uuid.New()
		mockOrderRepo.On("GetByID", mock.Anything, id).
			Return(&models.Order{ID: id, Status: status}, nil)
		mockOrderRepo.On("UpdateStatus", mock.Anything, id, models.StatusCancelled).Return(nil)

		service := newTestOrderService(mockOrderRepo, new(MockMenuRepository))

		order, err := service.CancelOrder(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, models.StatusCancelled, order.Status)
		mockOrderRepo.AssertExpectations(t)
	}
}

func TestCancelOrderRefusesDeliveredOrder(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	id := uuid.New()
	mockOrderRepo.On("GetByID", mock.Anything, id).
		Return(&models.Order{ID: id, Status: models.StatusDelivered}, nil)

	service := newTestOrderService(mockOrderRepo, new(MockMenuRepository))

	_, err := service.CancelOrder(context.Background(), id)
	require.ErrorIs(t, err, models.ErrTerminalStatus)
}

func TestAfterTodayUsesCalendarDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)

	require.False(t, afterToday(now, now))
	// Later the same day is still today.
	require.False(t, afterToday(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), now))
	// One minute into tomorrow qualifies.
	require.True(t, afterToday(time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC), now))
	require.False(t, afterToday(now.AddDate(0, 0, -1), now))
}
