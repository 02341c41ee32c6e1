package repository

import (
	"context"
	"time"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

type VerificationTokenRepository interface {
	Create(ctx context.Context, t *entity.EmailVerificationToken) error
	GetByID(ctx context.Context, id string) (*entity.EmailVerificationToken, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes tokens whose expiry is at or before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
