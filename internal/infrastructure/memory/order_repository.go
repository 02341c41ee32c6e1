package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

type OrderRepository struct{ s *Store }

func (r *OrderRepository) Submit(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]int, len(o.Items))
	for _, it := range o.Items {
		wanted[it.ProductID] += it.Quantity
	}
	// Check every product before touching any so a failure leaves stock intact.
	for id, qty := range wanted {
		p, ok := r.s.products[id]
		if !ok || p.StockQuantity < qty {
			return fmt.Errorf("%w: product %s", repository.ErrInsufficientStock, id)
		}
	}
	now := time.Now().UTC()
	for id, qty := range wanted {
		p := r.s.products[id]
		p.StockQuantity -= qty
		p.UpdatedAt = now
		r.s.products[id] = p
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
		o.Items[i].OrderID = o.ID
	}
	r.s.orders[o.ID] = cloneOrder(*o)
	r.s.orderSeq = append(r.s.orderSeq, o.ID)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	return r.list(func(o entity.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) ListAll(_ context.Context) ([]entity.Order, error) {
	return r.list(func(entity.Order) bool { return true }), nil
}

func (r *OrderRepository) list(match func(entity.Order) bool) []entity.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Order{}
	for _, id := range r.s.orderSeq {
		if o := r.s.orders[id]; match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, from, to entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Status != from {
		return fmt.Errorf("%w: order %s is %s", repository.ErrStatusChanged, id, o.Status)
	}
	o.Status = to
	r.s.orders[id] = o
	return nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
