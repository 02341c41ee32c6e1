package application

import (
	"context"
	"io"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

// AuditSink accepts audit entries without blocking the caller. Delivery is best effort.
type AuditSink interface {
	Send(ctx context.Context, l entity.AuditLog)
}

// ProductIndex is the full-text search side of the catalog.
type ProductIndex interface {
	Index(ctx context.Context, p *entity.Product) error
	Remove(ctx context.Context, id string) error
	// Search returns matching product ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ImageStore uploads objects and returns their public URL. Delete takes a URL
// previously returned by Upload; URLs the store does not own are ignored.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// OrderMetrics counts order outcomes.
type OrderMetrics interface {
	OrderSubmitted()
	OrderRejected(reason string)
}

type nopMetrics struct{}

func (nopMetrics) OrderSubmitted()      {}
func (nopMetrics) OrderRejected(string) {}

// Rejection reasons reported to OrderMetrics.
const (
	RejectEmpty        = "empty"
	RejectUnknownUser  = "unknown_user"
	RejectValidation   = "validation"
	RejectStockChanged = "stock_changed"
	RejectInternal     = "internal"
)
