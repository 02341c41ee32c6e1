package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

type AuditLogRepository struct{ s *Store }

func (r *AuditLogRepository) Insert(_ context.Context, l *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	r.s.audit = append(r.s.audit, *l)
	return nil
}

func (r *AuditLogRepository) List(_ context.Context) ([]entity.AuditLog, error) {
	return r.filter(func(entity.AuditLog) bool { return true }), nil
}

func (r *AuditLogRepository) ListByUser(_ context.Context, userID string) ([]entity.AuditLog, error) {
	return r.filter(func(l entity.AuditLog) bool { return l.UserID == userID }), nil
}

func (r *AuditLogRepository) ListBetween(_ context.Context, from, to time.Time) ([]entity.AuditLog, error) {
	return r.filter(func(l entity.AuditLog) bool {
		return !l.Timestamp.Before(from) && l.Timestamp.Before(to)
	}), nil
}

func (r *AuditLogRepository) filter(match func(entity.AuditLog) bool) []entity.AuditLog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.AuditLog{}
	for _, l := range r.s.audit {
		if match(l) {
			out = append(out, l)
		}
	}
	return out
}

var _ repository.AuditLogRepository = (*AuditLogRepository)(nil)
