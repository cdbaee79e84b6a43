package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStockAdjustment_Apply(t *testing.T) {
	cases := []struct {
		name    string
		adj     StockAdjustment
		current int
		want    int
	}{
		{"add", StockAdjustment{Type: AdjustmentAdd, Quantity: 3}, 5, 8},
		{"add zero", StockAdjustment{Type: AdjustmentAdd, Quantity: 0}, 5, 5},
		{"remove", StockAdjustment{Type: AdjustmentRemove, Quantity: 2}, 5, 3},
		{"remove clamps", StockAdjustment{Type: AdjustmentRemove, Quantity: 8}, 5, 0},
		{"set", StockAdjustment{Type: AdjustmentSet, Quantity: 42}, 5, 42},
		{"set negative clamps", StockAdjustment{Type: AdjustmentSet, Quantity: -4}, 5, 0},
		{"unknown keeps", StockAdjustment{Type: "bogus", Quantity: 4}, 5, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.adj.Apply(tc.current))
		})
	}
}

func TestStockAdjustment_AddNeverDecreases(t *testing.T) {
	for stock := 0; stock < 20; stock++ {
		for qty := 0; qty < 20; qty++ {
			got := StockAdjustment{Type: AdjustmentAdd, Quantity: qty}.Apply(stock)
			require.Equal(t, stock+qty, got)
			require.GreaterOrEqual(t, got, stock)
		}
	}
}

func TestProduct_Normalize(t *testing.T) {
	p := Product{Stock: 0, Tags: []string{" Organic ", "", "tea", "Organic"}}
	p.Normalize()
	require.False(t, p.InStock)
	require.Equal(t, []string{"Organic", "tea"}, p.Tags)

	p.Stock = 3
	p.Normalize()
	require.True(t, p.InStock)
}

func TestProduct_LowStockAndPrice(t *testing.T) {
	p := Product{Stock: 10, Price: decimal.NewFromInt(200)}
	require.True(t, p.IsLowStock(10))
	p.ReorderPoint = 5
	require.False(t, p.IsLowStock(10))

	require.True(t, p.UnitPrice().Equal(decimal.NewFromInt(200)))
	d := decimal.NewFromInt(150)
	p.DiscountPrice = &d
	require.True(t, p.UnitPrice().Equal(d))
}

func TestProduct_CloneDoesNotShareSlices(t *testing.T) {
	p := Product{Tags: []string{"a"}}
	cp := p.Clone()
	cp.Tags[0] = "b"
	require.Equal(t, "a", p.Tags[0])
}

func TestOrderStatus_CanTransition(t *testing.T) {
	require.True(t, OrderStatusPending.CanTransition(OrderStatusPacked))
	require.True(t, OrderStatusPacked.CanTransition(OrderStatusShipped))
	require.True(t, OrderStatusShipped.CanTransition(OrderStatusDelivered))
	require.True(t, OrderStatusShipped.CanTransition(OrderStatusShipped))
	require.True(t, OrderStatusShipped.CanTransition(OrderStatusCancelled))

	require.False(t, OrderStatusPending.CanTransition(OrderStatusShipped))
	require.False(t, OrderStatusDelivered.CanTransition(OrderStatusPending))
	require.False(t, OrderStatusDelivered.CanTransition(OrderStatusCancelled))
	require.False(t, OrderStatusCancelled.CanTransition(OrderStatusPending))
	require.False(t, OrderStatusPending.CanTransition("lost"))
}
