//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	"github.com/oksasatya/inventory-order-api/internal/domain/repository"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "db", "migrations")
}

func setupPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inventory"),
		tcpostgres.WithUsername("inventory"),
		tcpostgres.WithPassword("inventory"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dsn, migrationsDir(), helpers.NewDiscardLogger()))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type pgFixture struct {
	users    *UserRepository
	products *ProductRepository
	orders   *OrderRepository
	audit    *AuditLogRepository
}

func (f pgFixture) user(ctx context.Context, t *testing.T) *entity.User {
	t.Helper()
	name := "u" + uuid.NewString()[:8]
	u := &entity.User{Username: name, Email: name + "@example.com", PasswordHash: "h", PasswordSalt: "s", Role: entity.RoleCustomer}
	require.NoError(t, f.users.Create(ctx, u))
	return u
}

func (f pgFixture) product(ctx context.Context, t *testing.T, price string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: "Widget", Price: decimal.RequireFromString(price), StockQuantity: stock}
	require.NoError(t, f.products.Create(ctx, p))
	return p
}

func (f pgFixture) stockOf(ctx context.Context, t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(ctx, id)
	require.NoError(t, err)
	return p.StockQuantity
}

func newOrder(userID string, lines map[*entity.Product]int) *entity.Order {
	o := &entity.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    entity.OrderSubmitted,
		OrderDate: time.Now().UTC(),
		Price:     decimal.Zero,
	}
	for p, qty := range lines {
		o.AddItem(entity.OrderItem{ID: uuid.NewString(), ProductID: p.ID, Quantity: qty, UnitPrice: p.Price})
	}
	return o
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := setupPool(ctx, t)
	f := pgFixture{
		users:    NewUserRepository(pool),
		products: NewProductRepository(pool),
		orders:   NewOrderRepository(pool),
		audit:    NewAuditLogRepository(pool),
	}

	t.Run("submit decrements stock and stores items", func(t *testing.T) {
		u := f.user(ctx, t)
		a := f.product(ctx, t, "12.50", 10)
		b := f.product(ctx, t, "2.00", 3)

		o := newOrder(u.ID, map[*entity.Product]int{a: 2, b: 3})
		require.NoError(t, f.orders.Submit(ctx, o))

		assert.Equal(t, 8, f.stockOf(ctx, t, a.ID))
		assert.Equal(t, 0, f.stockOf(ctx, t, b.ID))

		got, err := f.orders.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.UserID)
		assert.Equal(t, entity.OrderSubmitted, got.Status)
		assert.Equal(t, "31.00", got.Price.StringFixed(2))
		assert.Len(t, got.Items, 2)

		mine, err := f.orders.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Len(t, mine[0].Items, 2)
	})

	t.Run("insufficient stock rolls back every line", func(t *testing.T) {
		u := f.user(ctx, t)
		a := f.product(ctx, t, "1.00", 5)
		b := f.product(ctx, t, "1.00", 1)

		o := newOrder(u.ID, map[*entity.Product]int{a: 2, b: 3})
		err := f.orders.Submit(ctx, o)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)

		assert.Equal(t, 5, f.stockOf(ctx, t, a.ID))
		assert.Equal(t, 1, f.stockOf(ctx, t, b.ID))
		_, err = f.orders.GetByID(ctx, o.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("concurrent submissions never oversell", func(t *testing.T) {
		u := f.user(ctx, t)
		a := f.product(ctx, t, "1.00", 10)
		b := f.product(ctx, t, "1.00", 100)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Lines name both products so lock order matters.
				err := f.orders.Submit(ctx, newOrder(u.ID, map[*entity.Product]int{a: 1, b: 1}))
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, repository.ErrInsufficientStock)
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 0, f.stockOf(ctx, t, a.ID))
		assert.Equal(t, 90, f.stockOf(ctx, t, b.ID))
	})

	t.Run("status update is conditional on the previous status", func(t *testing.T) {
		u := f.user(ctx, t)
		a := f.product(ctx, t, "1.00", 1)
		o := newOrder(u.ID, map[*entity.Product]int{a: 1})
		require.NoError(t, f.orders.Submit(ctx, o))

		require.NoError(t, f.orders.UpdateStatus(ctx, o.ID, entity.OrderSubmitted, entity.OrderCompleted))
		err := f.orders.UpdateStatus(ctx, o.ID, entity.OrderSubmitted, entity.OrderCancelled)
		assert.ErrorIs(t, err, repository.ErrStatusChanged)
		assert.ErrorIs(t, f.orders.UpdateStatus(ctx, uuid.NewString(), entity.OrderSubmitted, entity.OrderCancelled), repository.ErrNotFound)

		got, err := f.orders.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderCompleted, got.Status)
	})

	t.Run("driver errors map to repository sentinels", func(t *testing.T) {
		u := f.user(ctx, t)
		dup := &entity.User{Username: u.Username, Email: "other-" + u.Email, PasswordHash: "h", PasswordSalt: "s", Role: entity.RoleCustomer}
		assert.ErrorIs(t, f.users.Create(ctx, dup), repository.ErrConflict)

		_, err := f.products.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = f.orders.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)

		logs, err := f.audit.ListByUser(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("price is stored at two decimals", func(t *testing.T) {
		p := f.product(ctx, t, "9999999999.99", 2147483647)
		got, err := f.products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "9999999999.99", got.Price.StringFixed(2))
		assert.Equal(t, 2147483647, got.StockQuantity)
	})
}
