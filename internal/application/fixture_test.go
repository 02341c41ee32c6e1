package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/memory"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
	"github.com/oksasatya/inventory-order-api/pkg/mailer"
)

// syncSink writes straight to the repository so tests can assert on audit entries.
type syncSink struct{ repo repo.AuditLogRepository }

func (s syncSink) Send(ctx context.Context, l entity.AuditLog) { _ = s.repo.Insert(ctx, &l) }

type countingMetrics struct {
	mu        sync.Mutex
	submitted int
	rejected  map[string]int
}

func (m *countingMetrics) OrderSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted++
}

func (m *countingMetrics) OrderRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

type fixture struct {
	store    *memory.Store
	cfg      *config.Config
	mail     *mailer.LogQueue
	metrics  *countingMetrics
	audit    *AuditService
	orders   *OrderService
	products *ProductService
	verify   *VerificationService
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	logger := helpers.NewDiscardLogger()
	cfg := &config.Config{
		AppName:                  "inventory-order-api",
		VerifyBaseURL:            "http://localhost:8080/api/auth/user/verify",
		VerifyTokenTTL:           24 * time.Hour,
		LoginRequireVerified:     true,
		RefreshTTL:               time.Hour,
		OrderCancellableStatuses: "Submitted,InProgress",
	}
	f := &fixture{
		store:   store,
		cfg:     cfg,
		mail:    mailer.NewLogQueue(nil),
		metrics: &countingMetrics{rejected: map[string]int{}},
	}
	f.audit = NewAuditService(store.AuditLogs(), syncSink{repo: store.AuditLogs()}, logger)
	f.orders = NewOrderService(store.Users(), store.Products(), store.Orders(), f.audit, f.mail, f.metrics, cfg, logger)
	f.products = NewProductService(store.Products(), f.audit, nil, nil, logger)
	f.verify = NewVerificationService(store.Users(), store.VerificationTokens(), f.audit, f.mail, cfg, logger)
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Minute, time.Hour)
	f.auth = NewAuthService(store.Users(), f.verify, jwt, nil, f.audit, cfg, logger)
	return f
}

func (f *fixture) seedUser(t *testing.T, username string, role entity.Role) *entity.User {
	t.Helper()
	hash, salt, err := helpers.GenerateHashAndSalt("password123")
	require.NoError(t, err)
	u := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
		IsVerified:   true,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) seedProduct(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	logs, err := f.store.AuditLogs().List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Action)
	}
	return out
}
