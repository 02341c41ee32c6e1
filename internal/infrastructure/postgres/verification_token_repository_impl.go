package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

type VerificationTokenRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationTokenRepository(pool *pgxpool.Pool) *VerificationTokenRepository {
	return &VerificationTokenRepository{pool: pool}
}

func (r *VerificationTokenRepository) Create(ctx context.Context, t *entity.EmailVerificationToken) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO email_verification_tokens (user_id, created_at, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, t.UserID, t.CreatedAt, t.ExpiresAt)
	return mapErr(row.Scan(&t.ID))
}

func (r *VerificationTokenRepository) GetByID(ctx context.Context, id string) (*entity.EmailVerificationToken, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	t := &entity.EmailVerificationToken{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, expires_at
		FROM email_verification_tokens
		WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r *VerificationTokenRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM email_verification_tokens WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM email_verification_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.VerificationTokenRepository = (*VerificationTokenRepository)(nil)
