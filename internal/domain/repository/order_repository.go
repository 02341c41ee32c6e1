package repository

import (
	"context"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

// OrderRepository persists orders together with their items.
type OrderRepository interface {
	// Submit stores the order and its items and decrements the stock of every
	// referenced product in one unit of work. A decrement that would take stock
	// below zero aborts everything with ErrInsufficientStock.
	Submit(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	// UpdateStatus moves the order from status from to status to. It returns
	// ErrStatusChanged when the order is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) error
}
