package repositories

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampedStockExpression(t *testing.T) {
	expr := clampedStock(-1000)

	require.Equal(t, "GREATEST(stock + ?, 0)", expr.SQL)
	require.Equal(t, []interface{}{-1000.0}, expr.Vars)
}

func TestClampedStockFloorsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		stock float64
		delta float64
		want  float64
	}{
		{name: "decrement within stock", stock: 5, delta: -2, want: 3},
		{name: "decrement exceeding stock", stock: 5, delta: -1000, want: 0},
		{name: "decrement to exactly zero", stock: 5, delta: -5, want: 0},
		{name: "increment", stock: 5, delta: 10, want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := clampedStock(tt.delta)
			require.Len(t, expr.Vars, 1)

			// Evaluate GREATEST(stock + delta, 0) the way the database will.
			delta := expr.Vars[0].(float64)
			require.Equal(t, tt.want, math.Max(tt.stock+delta, 0))
		})
	}
}
