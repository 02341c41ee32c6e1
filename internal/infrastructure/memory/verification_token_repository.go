package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

type VerificationTokenRepository struct{ s *Store }

func (r *VerificationTokenRepository) Create(_ context.Context, t *entity.EmailVerificationToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	r.s.tokens[t.ID] = *t
	return nil
}

func (r *VerificationTokenRepository) GetByID(_ context.Context, id string) (*entity.EmailVerificationToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tokens[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *VerificationTokenRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tokens[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tokens, id)
	return nil
}

func (r *VerificationTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.tokens {
		if t.Expired(now) {
			delete(r.s.tokens, id)
			n++
		}
	}
	return n, nil
}

var _ repository.VerificationTokenRepository = (*VerificationTokenRepository)(nil)
