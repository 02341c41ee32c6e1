package repository

import (
	"context"
	"time"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

// AuditLogRepository is append-only.
type AuditLogRepository interface {
	Insert(ctx context.Context, l *entity.AuditLog) error
	List(ctx context.Context) ([]entity.AuditLog, error)
	ListByUser(ctx context.Context, userID string) ([]entity.AuditLog, error)
	// ListBetween returns entries with from <= timestamp < to.
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.AuditLog, error)
}
