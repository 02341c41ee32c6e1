package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		qty  int
		want StockStatus
	}{
		{-1, StockUnavailable},
		{0, StockLow},
		{4, StockLow},
		{5, StockAvailable},
		{120, StockAvailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatusOf(tt.qty), "qty=%d", tt.qty)
	}
}

func TestOrderAddItemAccumulatesPrice(t *testing.T) {
	o := &Order{ID: "o1"}
	o.AddItem(OrderItem{ProductID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("49.99")})
	o.AddItem(OrderItem{ProductID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("0.02")})

	assert.True(t, decimal.RequireFromString("100.00").Equal(o.Price), "got %s", o.Price)
	for _, it := range o.Items {
		assert.Equal(t, "o1", it.OrderID)
	}
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("InProgress")
	assert.True(t, ok)
	assert.Equal(t, OrderInProgress, st)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestVerificationTokenExpired(t *testing.T) {
	now := time.Now()
	tok := &EmailVerificationToken{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(time.Minute)))
}
