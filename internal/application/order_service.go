package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	"github.com/oksasatya/inventory-order-api/pkg/mailer"
	mailtpl "github.com/oksasatya/inventory-order-api/pkg/mailer/templates"
)

// OrderLine is one requested (product, quantity) pair.
type OrderLine struct {
	ProductID string
	Quantity  int
}

type OrderService struct {
	Users    repo.UserRepository
	Products repo.ProductRepository
	Orders   repo.OrderRepository
	Audit    *AuditService
	Mail     mailer.Queue
	Metrics  OrderMetrics
	Cfg      *config.Config
	Logger   *logrus.Logger

	cancellable map[entity.OrderStatus]bool
}

func NewOrderService(users repo.UserRepository, products repo.ProductRepository, orders repo.OrderRepository, audit *AuditService, mail mailer.Queue, metrics OrderMetrics, cfg *config.Config, logger *logrus.Logger) *OrderService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	cancellable := make(map[entity.OrderStatus]bool)
	for _, name := range cfg.CancellableStatuses() {
		if st, ok := entity.ParseOrderStatus(name); ok {
			cancellable[st] = true
		} else {
			logger.WithField("status", name).Warn("ignoring unknown cancellable order status")
		}
	}
	return &OrderService{
		Users:       users,
		Products:    products,
		Orders:      orders,
		Audit:       audit,
		Mail:        mail,
		Metrics:     metrics,
		Cfg:         cfg,
		Logger:      logger,
		cancellable: cancellable,
	}
}

// Submit validates every line against current stock, then persists the order,
// its items and the stock decrements as one unit of work.
func (s *OrderService) Submit(ctx context.Context, userID string, lines []OrderLine) Result[*entity.Order] {
	log := s.Logger.WithFields(logrus.Fields{"op": "OrderService.Submit", "user_id": userID})

	if len(lines) == 0 {
		s.Metrics.OrderRejected(RejectEmpty)
		log.Warn("empty order")
		return BadRequest[*entity.Order]("order must contain at least one item")
	}

	user, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		s.Metrics.OrderRejected(RejectUnknownUser)
		log.Warn("order submitted for unknown user")
		return BadRequest[*entity.Order](fmt.Sprintf("user %s does not exist", userID))
	}
	if err != nil {
		s.Metrics.OrderRejected(RejectInternal)
		log.WithError(err).Error("load user failed")
		return Internal[*entity.Order]()
	}

	products, problems, err := s.validateLines(ctx, lines)
	if err != nil {
		s.Metrics.OrderRejected(RejectInternal)
		log.WithError(err).Error("load products failed")
		return Internal[*entity.Order]()
	}
	if len(problems) > 0 {
		msg := strings.Join(problems, "; ")
		s.Metrics.OrderRejected(RejectValidation)
		log.WithField("problems", msg).Warn("order rejected")
		return BadRequest[*entity.Order](msg)
	}

	order := &entity.Order{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Status:    entity.OrderSubmitted,
		OrderDate: time.Now().UTC(),
		Price:     decimal.Zero,
	}
	for _, l := range lines {
		order.AddItem(entity.OrderItem{
			ID:        uuid.NewString(),
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: products[l.ProductID].Price,
		})
	}

	if err := s.Orders.Submit(ctx, order); err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			s.Metrics.OrderRejected(RejectStockChanged)
			log.WithError(err).Warn("stock changed before commit")
			return BadRequest[*entity.Order](err.Error())
		}
		s.Metrics.OrderRejected(RejectInternal)
		log.WithError(err).WithField("order_id", order.ID).Error("persist order failed")
		return Internal[*entity.Order]()
	}

	s.Metrics.OrderSubmitted()
	total := order.Price.StringFixed(2)
	s.Audit.Record(ctx, user.ID, fmt.Sprintf("Submitted order %s with %d item(s) totalling %s", order.ID, len(order.Items), total))
	s.notify(ctx, user, order, total)
	log.WithFields(logrus.Fields{"order_id": order.ID, "price": total}).Info("order submitted")
	return Created(order)
}

// validateLines checks every line and collects all problems. Repeated product
// ids are checked against the stock left after the earlier lines.
func (s *OrderService) validateLines(ctx context.Context, lines []OrderLine) (map[string]*entity.Product, []string, error) {
	products := make(map[string]*entity.Product, len(lines))
	remaining := make(map[string]int, len(lines))
	var problems []string

	for _, l := range lines {
		if l.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("invalid quantity for product %s: %d", l.ProductID, l.Quantity))
			continue
		}
		p, seen := products[l.ProductID]
		if !seen {
			var err error
			p, err = s.Products.GetByID(ctx, l.ProductID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, nil, err
			}
			products[l.ProductID] = p
			if p != nil {
				remaining[l.ProductID] = p.StockQuantity
			}
		}
		if p == nil {
			problems = append(problems, "invalid product id: "+l.ProductID)
			continue
		}
		if avail := remaining[l.ProductID]; avail < l.Quantity {
			problems = append(problems, fmt.Sprintf("insufficient quantity for product %s: requested %d, available %d", l.ProductID, l.Quantity, avail))
			continue
		}
		remaining[l.ProductID] -= l.Quantity
	}
	return products, problems, nil
}

func (s *OrderService) notify(ctx context.Context, user *entity.User, order *entity.Order, total string) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       user.Email,
		Template: mailtpl.OrderSubmitted,
		Data:     mailtpl.NewOrderSubmittedData(s.Cfg, user.Username, user.Email, order.ID, total, len(order.Items)),
	}
	if err := s.Mail.Enqueue(ctx, job); err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "OrderService.notify", "order_id": order.ID}).WithError(err).Warn("enqueue order email failed")
	}
}

// Get returns the order when it belongs to userID. A missing order and a
// foreign order are indistinguishable to the caller.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) Result[*entity.Order] {
	return s.loadOwned(ctx, "OrderService.Get", userID, orderID)
}

func (s *OrderService) loadOwned(ctx context.Context, op, userID, orderID string) Result[*entity.Order] {
	log := s.Logger.WithFields(logrus.Fields{"op": op, "user_id": userID, "order_id": orderID})

	if r := s.requireUser(ctx, op, userID); !r.Succeeded() {
		return Propagate[*entity.Order](r)
	}
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("load order failed")
		return Internal[*entity.Order]()
	}
	if order == nil || !order.BelongsTo(userID) {
		log.Warn("order not accessible to user")
		return Unauthorized[*entity.Order]("you are not allowed to access this order")
	}
	return OK(order)
}

func (s *OrderService) requireUser(ctx context.Context, op, userID string) Result[*entity.User] {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithFields(logrus.Fields{"op": op, "user_id": userID}).Warn("user not found")
		return NotFound[*entity.User]("user not found")
	}
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": op, "user_id": userID}).WithError(err).Error("load user failed")
		return Internal[*entity.User]()
	}
	return OK(u)
}

// History lists the user's orders in storage order.
func (s *OrderService) History(ctx context.Context, userID string) Result[[]entity.Order] {
	const op = "OrderService.History"
	if r := s.requireUser(ctx, op, userID); !r.Succeeded() {
		return Propagate[[]entity.Order](r)
	}
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": op, "user_id": userID}).WithError(err).Error("list orders failed")
		return Internal[[]entity.Order]()
	}
	return OK(orders)
}

// Cancel moves an owned order to Cancelled. Stock is not returned.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) Result[*entity.Order] {
	const op = "OrderService.Cancel"
	r := s.loadOwned(ctx, op, userID, orderID)
	if !r.Succeeded() {
		return r
	}
	order := r.Value()
	log := s.Logger.WithFields(logrus.Fields{"op": op, "user_id": userID, "order_id": orderID})

	if !s.cancellable[order.Status] {
		log.WithField("status", order.Status).Warn("order not cancellable")
		return BadRequest[*entity.Order](fmt.Sprintf("order %s cannot be cancelled from status %s", order.ID, order.Status))
	}
	prev := order.Status
	if err := s.Orders.UpdateStatus(ctx, order.ID, prev, entity.OrderCancelled); err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			log.WithError(err).Warn("order status changed before cancel")
			return BadRequest[*entity.Order](fmt.Sprintf("order %s changed status while cancelling; reload and retry", order.ID))
		}
		log.WithError(err).Error("cancel order failed")
		return Internal[*entity.Order]()
	}
	order.Status = entity.OrderCancelled
	s.Audit.Record(ctx, userID, fmt.Sprintf("Cancelled order %s (was %s)", order.ID, prev))
	return OK(order)
}

// ListAll returns every order; admin only.
func (s *OrderService) ListAll(ctx context.Context) Result[[]entity.Order] {
	orders, err := s.Orders.ListAll(ctx)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "OrderService.ListAll"}).WithError(err).Error("list orders failed")
		return Internal[[]entity.Order]()
	}
	return OK(orders)
}

var nextStatus = map[entity.OrderStatus]entity.OrderStatus{
	entity.OrderSubmitted:  entity.OrderInProgress,
	entity.OrderInProgress: entity.OrderCompleted,
}

// UpdateStatus advances an order along Submitted -> InProgress -> Completed.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID, orderID, status string) Result[*entity.Order] {
	log := s.Logger.WithFields(logrus.Fields{"op": "OrderService.UpdateStatus", "user_id": actorID, "order_id": orderID})

	target, ok := entity.ParseOrderStatus(status)
	if !ok {
		log.WithField("status", status).Warn("unknown order status")
		return BadRequest[*entity.Order](fmt.Sprintf("unknown order status %q", status))
	}
	order, err := s.Orders.GetByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		log.Warn("order not found")
		return NotFound[*entity.Order]("order not found")
	}
	if err != nil {
		log.WithError(err).Error("load order failed")
		return Internal[*entity.Order]()
	}
	if next, ok := nextStatus[order.Status]; !ok || next != target {
		log.WithFields(logrus.Fields{"from": order.Status, "to": target}).Warn("invalid status transition")
		return BadRequest[*entity.Order](fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}
	if err := s.Orders.UpdateStatus(ctx, order.ID, order.Status, target); err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			log.WithError(err).Warn("order status changed before update")
			return BadRequest[*entity.Order](fmt.Sprintf("order %s changed status concurrently; reload and retry", order.ID))
		}
		log.WithError(err).Error("update order status failed")
		return Internal[*entity.Order]()
	}
	prev := order.Status
	order.Status = target
	s.Audit.Record(ctx, actorID, fmt.Sprintf("Changed status of order %s from %s to %s", order.ID, prev, target))
	return OK(order)
}
