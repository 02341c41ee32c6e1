package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

type AuditLogRepository struct {
	pool *pgxpool.Pool
}

func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{pool: pool}
}

func (r *AuditLogRepository) Insert(ctx context.Context, l *entity.AuditLog) error {
	var uid *string
	if l.UserID != "" {
		uid = &l.UserID
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, timestamp, action)
		VALUES ($1, $2, $3)
		RETURNING id
	`, uid, l.Timestamp, l.Action)
	return mapErr(row.Scan(&l.ID))
}

func (r *AuditLogRepository) List(ctx context.Context) ([]entity.AuditLog, error) {
	return r.query(ctx, `SELECT id, user_id, timestamp, action FROM audit_logs ORDER BY timestamp`)
}

// ListByUser returns an empty list for ids that are not UUIDs, as no user can own them.
func (r *AuditLogRepository) ListByUser(ctx context.Context, userID string) ([]entity.AuditLog, error) {
	if !isUUID(userID) {
		return []entity.AuditLog{}, nil
	}
	return r.query(ctx, `SELECT id, user_id, timestamp, action FROM audit_logs WHERE user_id = $1 ORDER BY timestamp`, userID)
}

func (r *AuditLogRepository) ListBetween(ctx context.Context, from, to time.Time) ([]entity.AuditLog, error) {
	return r.query(ctx, `
		SELECT id, user_id, timestamp, action FROM audit_logs
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp
	`, from, to)
}

func (r *AuditLogRepository) query(ctx context.Context, q string, args ...any) ([]entity.AuditLog, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	logs := []entity.AuditLog{}
	for rows.Next() {
		var l entity.AuditLog
		var uid *string
		if err := rows.Scan(&l.ID, &uid, &l.Timestamp, &l.Action); err != nil {
			return nil, err
		}
		if uid != nil {
			l.UserID = *uid
		}
		logs = append(logs, l)
	}
	return logs, mapErr(rows.Err())
}

var _ repository.AuditLogRepository = (*AuditLogRepository)(nil)
