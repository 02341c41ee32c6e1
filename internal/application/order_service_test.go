package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	mailtpl "github.com/oksasatya/inventory-order-api/pkg/mailer/templates"
)

func TestSubmitSingleLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "49.99", 13)

	r := f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}})

	require.Equal(t, KindCreated, r.Kind(), r.Message())
	o := r.Value()
	assert.True(t, o.Price.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, entity.OrderSubmitted, o.Status)
	assert.Equal(t, u.ID, o.UserID)
	require.Len(t, o.Items, 1)
	assert.Equal(t, o.ID, o.Items[0].OrderID)
	assert.True(t, o.Items[0].UnitPrice.Equal(p.Price))
	assert.Equal(t, 12, f.stockOf(t, p.ID))

	stored, err := f.store.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)

	assert.Equal(t, 1, f.metrics.submitted)
	assert.Contains(t, f.auditActions(t), "Submitted order "+o.ID+" with 1 item(s) totalling 49.99")
	jobs := f.mail.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, mailtpl.OrderSubmitted, jobs[0].Template)
	assert.Equal(t, u.Email, jobs[0].To)
}

func TestSubmitInsufficientQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "10.00", 7)

	r := f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 999}})

	assert.Equal(t, KindBadRequest, r.Kind())
	assert.Contains(t, r.Message(), "insufficient quantity")
	assert.Contains(t, r.Message(), p.ID)
	assert.Equal(t, 7, f.stockOf(t, p.ID))

	orders, err := f.store.Orders().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 1, f.metrics.rejected[RejectValidation])
	assert.Empty(t, f.mail.Jobs())
}

func TestSubmitReportsEveryProblem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	ok := f.seedProduct(t, "Plenty", "1.00", 100)
	short := f.seedProduct(t, "Scarce", "2.00", 1)

	r := f.orders.Submit(ctx, u.ID, []OrderLine{
		{ProductID: ok.ID, Quantity: 5},
		{ProductID: "missing-product", Quantity: 1},
		{ProductID: short.ID, Quantity: 2},
	})

	require.Equal(t, KindBadRequest, r.Kind())
	parts := strings.Split(r.Message(), "; ")
	assert.Equal(t, []string{
		"invalid product id: missing-product",
		"insufficient quantity for product " + short.ID + ": requested 2, available 1",
	}, parts)
	assert.Equal(t, 100, f.stockOf(t, ok.ID))
	assert.Equal(t, 1, f.stockOf(t, short.ID))
}

func TestSubmitUnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Widget", "5.00", 3)

	r := f.orders.Submit(ctx, "no-such-user", []OrderLine{{ProductID: p.ID, Quantity: 1}})

	assert.Equal(t, KindBadRequest, r.Kind())
	assert.Equal(t, 3, f.stockOf(t, p.ID))
	orders, _ := f.store.Orders().ListAll(ctx)
	assert.Empty(t, orders)
	assert.Empty(t, f.auditActions(t))
}

func TestSubmitRejectsMalformedLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 3)

	tests := []struct {
		name  string
		lines []OrderLine
		want  string
	}{
		{"empty", nil, "at least one item"},
		{"zero quantity", []OrderLine{{ProductID: p.ID, Quantity: 0}}, "invalid quantity"},
		{"negative quantity", []OrderLine{{ProductID: p.ID, Quantity: -2}}, "invalid quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.orders.Submit(ctx, u.ID, tt.lines)
			assert.Equal(t, KindBadRequest, r.Kind())
			assert.Contains(t, r.Message(), tt.want)
		})
	}
	assert.Equal(t, 3, f.stockOf(t, p.ID))
}

func TestSubmitRepeatedProductUsesRemainingStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 5)

	r := f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 3}, {ProductID: p.ID, Quantity: 3}})
	require.Equal(t, KindBadRequest, r.Kind())
	assert.Equal(t, "insufficient quantity for product "+p.ID+": requested 3, available 2", r.Message())
	assert.Equal(t, 5, f.stockOf(t, p.ID))

	r = f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 3}, {ProductID: p.ID, Quantity: 2}})
	require.Equal(t, KindCreated, r.Kind(), r.Message())
	assert.Len(t, r.Value().Items, 2)
	assert.Equal(t, 0, f.stockOf(t, p.ID))
}

func TestSubmitPriceIsSumOfSubtotals(t *testing.T) {
	tests := []struct {
		name  string
		lines [][2]any // price, quantity
		want  string
	}{
		{"one line", [][2]any{{"299.94", 2}}, "599.88"},
		{"three lines", [][2]any{{"0.10", 3}, {"19.99", 1}, {"5.00", 4}}, "40.29"},
		{"large quantity", [][2]any{{"1.01", 100}}, "101.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			u := f.seedUser(t, "alice", entity.RoleCustomer)

			var lines []OrderLine
			stockBefore := map[string]int{}
			for i, l := range tt.lines {
				p := f.seedProduct(t, "P"+string(rune('a'+i)), l[0].(string), 1000)
				stockBefore[p.ID] = p.StockQuantity
				lines = append(lines, OrderLine{ProductID: p.ID, Quantity: l[1].(int)})
			}

			r := f.orders.Submit(ctx, u.ID, lines)
			require.True(t, r.Succeeded(), r.Message())

			assert.Equal(t, tt.want, r.Value().Price.StringFixed(2))
			for _, l := range lines {
				assert.Equal(t, stockBefore[l.ProductID]-l.Quantity, f.stockOf(t, l.ProductID))
			}
		})
	}
}

func TestSubmitPersistenceFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 3)
	f.orders.Orders = failingOrders{OrderRepository: f.store.Orders(), err: errors.New("connection reset")}

	r := f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}})

	assert.Equal(t, KindInternal, r.Kind())
	assert.Equal(t, InternalErrorMessage, r.Message())
	assert.Equal(t, 3, f.stockOf(t, p.ID))
	assert.Equal(t, 1, f.metrics.rejected[RejectInternal])
}

// failingOrders rejects every submission before touching the store.
type failingOrders struct {
	repo.OrderRepository
	err error
}

func (o failingOrders) Submit(context.Context, *entity.Order) error { return o.err }

// racingOrders applies a competing status change right after the service reads the order.
type racingOrders struct {
	repo.OrderRepository
	to entity.OrderStatus
}

func (o racingOrders) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := o.OrderRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.OrderRepository.UpdateStatus(ctx, id, order.Status, o.to); err != nil {
		return nil, err
	}
	return order, nil
}

func TestCancelLosesRaceToCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)
	order := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}}).Value()

	// Submitted -> InProgress, read, then a concurrent admin completes it.
	require.NoError(t, f.store.Orders().UpdateStatus(ctx, order.ID, entity.OrderSubmitted, entity.OrderInProgress))
	f.orders.Orders = racingOrders{OrderRepository: f.store.Orders(), to: entity.OrderCompleted}

	r := f.orders.Cancel(ctx, alice.ID, order.ID)
	assert.Equal(t, KindBadRequest, r.Kind())
	assert.Contains(t, r.Message(), "changed status")

	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCompleted, stored.Status)
	assert.NotContains(t, f.auditActions(t), "Cancelled order "+order.ID+" (was InProgress)")
}

func TestUpdateStatusLosesRaceToCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin", entity.RoleAdmin)
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)
	order := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}}).Value()
	f.orders.Orders = racingOrders{OrderRepository: f.store.Orders(), to: entity.OrderCancelled}

	r := f.orders.UpdateStatus(ctx, admin.ID, order.ID, "InProgress")
	assert.Equal(t, KindBadRequest, r.Kind())

	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, stored.Status)
}

// staleProducts reports more stock than the store holds, as a concurrent order would leave it.
type staleProducts struct {
	repo.ProductRepository
	stock int
}

func (s staleProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.StockQuantity = s.stock
	return p, nil
}

func TestSubmitStockChangedBeforeCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 1)
	f.orders.Products = staleProducts{ProductRepository: f.store.Products(), stock: 50}

	r := f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 2}})

	assert.Equal(t, KindBadRequest, r.Kind())
	assert.Contains(t, r.Message(), p.ID)
	assert.Equal(t, 1, f.stockOf(t, p.ID))
	assert.Equal(t, 1, f.metrics.rejected[RejectStockChanged])
}

func TestSubmitConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := f.orders.Submit(ctx, u.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}})
			if r.Succeeded() {
				mu.Lock()
				created++
				mu.Unlock()
			} else {
				assert.Equal(t, KindBadRequest, r.Kind())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, created)
	assert.Equal(t, 0, f.stockOf(t, p.ID))
}

func TestGetOrderOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	bob := f.seedUser(t, "bob", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)
	order := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}}).Value()

	r := f.orders.Get(ctx, alice.ID, order.ID)
	require.Equal(t, KindOK, r.Kind())
	assert.Equal(t, order.ID, r.Value().ID)

	assert.Equal(t, KindUnauthorized, f.orders.Get(ctx, bob.ID, order.ID).Kind())
	assert.Equal(t, KindUnauthorized, f.orders.Get(ctx, bob.ID, "no-such-order").Kind())
	assert.Equal(t, f.orders.Get(ctx, bob.ID, order.ID).Message(), f.orders.Get(ctx, bob.ID, "no-such-order").Message())
	assert.Equal(t, KindNotFound, f.orders.Get(ctx, "ghost", order.ID).Kind())
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	bob := f.seedUser(t, "bob", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)

	first := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}}).Value()
	f.orders.Submit(ctx, bob.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}})
	second := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 2}}).Value()

	r := f.orders.History(ctx, alice.ID)
	require.Equal(t, KindOK, r.Kind())
	require.Len(t, r.Value(), 2)
	assert.Equal(t, first.ID, r.Value()[0].ID)
	assert.Equal(t, second.ID, r.Value()[1].ID)

	assert.Equal(t, KindNotFound, f.orders.History(ctx, "ghost").Kind())
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	bob := f.seedUser(t, "bob", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)
	order := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 4}}).Value()

	assert.Equal(t, KindUnauthorized, f.orders.Cancel(ctx, bob.ID, order.ID).Kind())

	r := f.orders.Cancel(ctx, alice.ID, order.ID)
	require.Equal(t, KindOK, r.Kind(), r.Message())
	assert.Equal(t, entity.OrderCancelled, r.Value().Status)
	assert.Equal(t, 6, f.stockOf(t, p.ID), "cancellation does not restock")

	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, stored.Status)

	again := f.orders.Cancel(ctx, alice.ID, order.ID)
	assert.Equal(t, KindBadRequest, again.Kind())
	assert.Contains(t, f.auditActions(t), "Cancelled order "+order.ID+" (was Submitted)")
}

func TestCancelRespectsConfiguredStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin", entity.RoleAdmin)
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)
	order := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}}).Value()

	require.True(t, f.orders.UpdateStatus(ctx, admin.ID, order.ID, "InProgress").Succeeded())
	require.True(t, f.orders.UpdateStatus(ctx, admin.ID, order.ID, "Completed").Succeeded())

	r := f.orders.Cancel(ctx, alice.ID, order.ID)
	assert.Equal(t, KindBadRequest, r.Kind())
	assert.Contains(t, r.Message(), "Completed")
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin", entity.RoleAdmin)
	alice := f.seedUser(t, "alice", entity.RoleCustomer)
	p := f.seedProduct(t, "Widget", "5.00", 10)
	order := f.orders.Submit(ctx, alice.ID, []OrderLine{{ProductID: p.ID, Quantity: 1}}).Value()

	assert.Equal(t, KindBadRequest, f.orders.UpdateStatus(ctx, admin.ID, order.ID, "Shipped").Kind())
	assert.Equal(t, KindBadRequest, f.orders.UpdateStatus(ctx, admin.ID, order.ID, "Completed").Kind())
	assert.Equal(t, KindNotFound, f.orders.UpdateStatus(ctx, admin.ID, "nope", "InProgress").Kind())

	r := f.orders.UpdateStatus(ctx, admin.ID, order.ID, "InProgress")
	require.Equal(t, KindOK, r.Kind(), r.Message())
	assert.Equal(t, entity.OrderInProgress, r.Value().Status)
	assert.Contains(t, f.auditActions(t), "Changed status of order "+order.ID+" from Submitted to InProgress")

	all := f.orders.ListAll(ctx)
	require.True(t, all.Succeeded())
	assert.Len(t, all.Value(), 1)
}
