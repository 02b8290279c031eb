package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
	"github.com/agrikart/fulfillment/internal/domains/orders/ports"
	"github.com/agrikart/fulfillment/internal/shared/lock"
)

// Service is the order ledger: the single writer of order state.
type Service struct {
	repo   ports.Repository
	locks  *lock.Keyed
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes the ledger service.
type Option func(*Service)

// WithLogger sets the audit/event logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the ledger with its repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		locks:  lock.NewKeyed(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Materialize creates the paid order aggregate from a confirmed checkout
// snapshot. Totals are asserted against the lines and frozen.
func (s *Service) Materialize(ctx context.Context, input ports.MaterializeInput) (*domain.Order, error) {
	id := input.OrderID
	if id == uuid.Nil {
		id = uuid.New()
	}
	order, err := domain.NewOrder(id, input.BuyerID, input.Lines, input.TotalPrice, input.ShippingAddress, input.PaidAt)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if errors.Is(err, ports.ErrAlreadyExists) {
		// Retried materialization for a claimed session converges on the
		// order created by the first attempt.
		return s.repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Transition advances the state machine under a per-order lock so racing
// updates (for example Cancel versus Ship) cannot lose writes.
func (s *Service) Transition(ctx context.Context, orderID uuid.UUID, target domain.Status, actor domain.Actor) (*domain.Order, error) {
	unlock := s.locks.Lock(orderID.String())
	defer unlock()

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.AuthorizeTransition(actor, order.Status, target); err != nil {
		return nil, mapError(err)
	}
	from := order.Status
	if err := order.TransitionTo(target, s.now()); err != nil {
		return nil, mapError(err)
	}
	// The conditional write covers writers on other instances that the
	// in-process lock cannot see.
	saved, err := s.repo.Update(ctx, order, from)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// MarkDeliveredVerified commits Delivered after a successful OTP
// verification. Only the delivery-confirmation path calls this.
func (s *Service) MarkDeliveredVerified(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.Transition(ctx, orderID, domain.StatusDelivered, domain.Actor{Role: domain.RoleSystem})
}

// OverrideDelivered marks an order Delivered without OTP proof. The override
// is restricted to sellers and always leaves an audit record in the log
// stream; it is not equivalent to a verified delivery.
func (s *Service) OverrideDelivered(ctx context.Context, orderID uuid.UUID, actor domain.Actor) (*domain.Order, error) {
	if actor.Role != domain.RoleSeller {
		return nil, mapError(domain.ErrForbidden)
	}
	saved, err := s.Transition(ctx, orderID, domain.StatusDelivered, domain.Actor{ID: actor.ID, Role: domain.RoleSystem})
	if err != nil {
		return nil, err
	}
	s.logger.Warn("delivery override applied without OTP verification",
		slog.String("event", "delivery_override"),
		slog.String("order.id", orderID.String()),
		slog.String("actor.id", actor.ID),
		slog.String("actor.role", string(actor.Role)))
	return saved, nil
}

// AssignCourier claims a delivery job for a courier. First claim wins.
func (s *Service) AssignCourier(ctx context.Context, orderID uuid.UUID, courierID string) (*domain.Order, error) {
	unlock := s.locks.Lock(orderID.String())
	defer unlock()

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if order.Status != domain.StatusOutForDelivery {
		return nil, mapError(domain.ErrInvalidTransition)
	}
	if err := order.AssignCourier(courierID); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, order, domain.StatusOutForDelivery)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (s *Service) ListByBuyer(ctx context.Context, buyerID string, page ports.Page) ([]*domain.Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID, page)
}

// ListBySeller returns all orders for the seller dashboard.
func (s *Service) ListBySeller(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	return s.repo.List(ctx, page)
}

// ListDeliveryJobs returns shippable orders awaiting a courier.
func (s *Service) ListDeliveryJobs(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListDeliveryJobs(ctx)
}

var _ ports.Service = (*Service)(nil)
