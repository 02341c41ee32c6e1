package audit

import (
	"context"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

// RepositoryWriter stores entries directly.
type RepositoryWriter struct {
	Repo repository.AuditLogRepository
}

func (w RepositoryWriter) Write(ctx context.Context, l entity.AuditLog) error {
	return w.Repo.Insert(ctx, &l)
}

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueWriter publishes entries for cmd/audit_worker.
type QueueWriter struct {
	Pub JSONPublisher
}

func (w QueueWriter) Write(ctx context.Context, l entity.AuditLog) error {
	return w.Pub.PublishJSON(ctx, l)
}
