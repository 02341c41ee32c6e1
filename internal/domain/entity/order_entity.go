package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderSubmitted  OrderStatus = "Submitted"
	OrderInProgress OrderStatus = "InProgress"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus returns the status named s and whether it is known.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderSubmitted, OrderInProgress, OrderCompleted, OrderCancelled:
		return st, true
	}
	return "", false
}

// Order owns its items; Price is always the sum of item subtotals.
type Order struct {
	ID        string
	UserID    string
	Status    OrderStatus
	OrderDate time.Time
	Price     decimal.Decimal
	Items     []OrderItem
}

// OrderItem captures the product price at submission time in UnitPrice.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddItem appends an item and folds its subtotal into the order price.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.Price = o.Price.Add(item.Subtotal())
}

// BelongsTo reports whether the order is owned by userID.
func (o *Order) BelongsTo(userID string) bool { return o.UserID == userID }
