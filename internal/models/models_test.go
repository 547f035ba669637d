package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusNextFollowsLinearFlow(t *testing.T) {
	transitions := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{StatusPending, StatusPreparing},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusDelivered},
	}
	for _, tr := range transitions {
		next, err := tr.from.Next()
		require.NoError(t, err)
		require.Equal(t, tr.to, next)
	}
}

func TestOrderStatusNextRefusesTerminal(t *testing.T) {
	for _, status := range []OrderStatus{StatusDelivered, StatusCancelled} {
		_, err := status.Next()
		require.ErrorIs(t, err, ErrTerminalStatus)
		require.True(t, status.Terminal())
	}
	require.False(t, StatusReady.Terminal())
}

func TestInventoryItemCriticalIsStrict(t *testing.T) {
	item := InventoryItem{Stock: 15, MinStock: 15}
	require.False(t, item.Critical())

	item.Stock = 14.9
	require.True(t, item.Critical())
}

func TestInventoryItemExpiryWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	overdue := InventoryItem{ExpiryDate: now.Add(-time.Minute)}
	require.Equal(t, ExpiryOverdue, overdue.Expiry(now))

	near := InventoryItem{ExpiryDate: now.Add(72*time.Hour - time.Minute)}
	require.Equal(t, ExpiryNear, near.Expiry(now))

	normal := InventoryItem{ExpiryDate: now.Add(72*time.Hour + time.Minute)}
	require.Equal(t, ExpiryNormal, normal.Expiry(now))
}

func TestMenuItemMargin(t *testing.T) {
	item := MenuItem{Price: 4, Cost: 1}
	require.InDelta(t, 0.75, item.Margin(), 0.0001)

	free := MenuItem{Price: 0, Cost: 1}
	require.Equal(t, 0.0, free.Margin())
}
