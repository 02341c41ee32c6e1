// Package memory provides mutex-guarded in-process repositories. They back
// STORAGE_DRIVER=memory for local runs and the service/handler tests.
package memory

import (
	"sync"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

// Store is the shared state behind every in-memory repository. A single
// lock covers all tables so order submission is atomic across products.
type Store struct {
	mu       sync.RWMutex
	users    map[string]entity.User
	products map[string]entity.Product
	orders   map[string]entity.Order
	orderSeq []string
	audit    []entity.AuditLog
	tokens   map[string]entity.EmailVerificationToken
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		products: make(map[string]entity.Product),
		orders:   make(map[string]entity.Order),
		tokens:   make(map[string]entity.EmailVerificationToken),
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }
func (s *Store) Orders() *OrderRepository     { return &OrderRepository{s: s} }
func (s *Store) AuditLogs() *AuditLogRepository {
	return &AuditLogRepository{s: s}
}
func (s *Store) VerificationTokens() *VerificationTokenRepository {
	return &VerificationTokenRepository{s: s}
}

func cloneOrder(o entity.Order) entity.Order {
	items := make([]entity.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
