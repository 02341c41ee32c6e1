package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
)

func TestVerifyIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Users().Create(ctx, &entity.User{Username: "bob", Email: "bob@example.com", Role: entity.RoleCustomer}))
	bob, err := f.store.Users().GetByUsername(ctx, "bob")
	require.NoError(t, err)

	tok, err := f.verify.Issue(ctx, bob)
	require.NoError(t, err)

	r := f.verify.Verify(ctx, tok.ID)
	require.Equal(t, KindOK, r.Kind(), r.Message())
	assert.True(t, r.Value().IsVerified)

	_, err = f.store.VerificationTokens().GetByID(ctx, tok.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Equal(t, KindNotFound, f.verify.Verify(ctx, tok.ID).Kind())
}

func TestVerifyExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	tok, err := f.verify.Issue(ctx, u)
	require.NoError(t, err)

	f.verify.now = func() time.Time { return tok.ExpiresAt }

	r := f.verify.Verify(ctx, tok.ID)
	assert.Equal(t, KindBadRequest, r.Kind())
	_, err = f.store.VerificationTokens().GetByID(ctx, tok.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound, "expired token is removed")
}

func TestVerifyUnknownToken(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, KindNotFound, f.verify.Verify(context.Background(), "missing").Kind())
}

func TestPurgeExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	old, err := f.verify.Issue(ctx, u)
	require.NoError(t, err)

	f.verify.now = func() time.Time { return old.ExpiresAt.Add(time.Minute) }
	fresh, err := f.verify.Issue(ctx, u)
	require.NoError(t, err)

	n, err := f.verify.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.store.VerificationTokens().GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
