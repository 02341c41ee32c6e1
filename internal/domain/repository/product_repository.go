package repository

import (
	"context"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	// Update writes the descriptive fields; stock is only changed through SetStock and order submission.
	Update(ctx context.Context, p *entity.Product) error
	SetStock(ctx context.Context, id string, qty int) error
	Delete(ctx context.Context, id string) error
}
