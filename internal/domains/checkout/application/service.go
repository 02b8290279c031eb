package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
	"github.com/agrikart/fulfillment/internal/shared/lock"
)

// claimRetry bounds how long a losing confirmer waits for the winner's order
// to land before giving up.
const (
	claimRetryAttempts = 20
	claimRetryDelay    = 100 * time.Millisecond
)

// Service is the checkout reconciler. It bridges a gateway checkout to
// exactly one order materialization.
type Service struct {
	sessions ports.SessionStore
	gateway  ports.PaymentGateway
	catalog  ports.Catalog
	ledger   ordersports.Service
	hooks    []ports.ConfirmedHook
	locks    *lock.Keyed
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithConfirmedHook registers a post-confirmation side effect (fraud
// evaluation, buyer notification). Hooks run detached from the caller.
func WithConfirmedHook(hook ports.ConfirmedHook) Option {
	return func(s *Service) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

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

// NewService wires the reconciler with its collaborators.
func NewService(sessions ports.SessionStore, gateway ports.PaymentGateway, catalog ports.Catalog, ledger ordersports.Service, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		gateway:  gateway,
		catalog:  catalog,
		ledger:   ledger,
		locks:    lock.NewKeyed(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateSession validates the cart against the catalog, reprices every line
// server-side, freezes the total, and opens a gateway checkout.
func (s *Service) CreateSession(ctx context.Context, buyerID string, lines []ports.CartLine, address ordersdomain.Address) (*domain.Session, error) {
	if len(lines) == 0 {
		return nil, mapError(ordersdomain.ErrEmptyLines)
	}
	priced := make([]ordersdomain.OrderLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, mapError(ordersdomain.ErrInvalidQuantity)
		}
		product, err := s.catalog.Product(ctx, line.ProductID)
		if err != nil {
			return nil, mapError(err)
		}
		if product.Stock < line.Quantity {
			return nil, mapError(ports.ErrProductUnavailable)
		}
		priced = append(priced, ordersdomain.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.UnitPrice,
			Quantity:    line.Quantity,
		})
	}

	session, err := domain.NewSession(buyerID, priced, address, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	checkout, err := s.gateway.CreateCheckout(ctx, session.Ref.String(), buyerID, session.TotalPrice)
	if err != nil {
		return nil, mapError(err)
	}
	session.GatewayRef = checkout.Ref
	session.RedirectURL = checkout.RedirectURL
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm reconciles the gateway confirmation with the order ledger.
//
// Gateway redirect and webhook can race on the same ref. In-process callers
// are serialized by a per-ref lock; across processes the session store's
// consume CAS decides the winner. The claimed order id is written into the
// session before materialization, so every path converges on one order.
func (s *Service) Confirm(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error) {
	unlock := s.locks.Lock(ref.String())
	defer unlock()

	session, err := s.sessions.Get(ctx, ref)
	if err != nil {
		return nil, mapError(err)
	}
	if session.Consumed {
		return s.orderForConsumed(ctx, session)
	}

	state, err := s.gateway.CheckoutStatus(ctx, session.GatewayRef)
	if err != nil {
		return nil, mapError(err)
	}
	if state != ports.CheckoutCompleted {
		return nil, ErrPaymentNotCompleted
	}

	orderID := uuid.New()
	if claimed, err := s.sessions.Consume(ctx, ref, orderID); err != nil {
		if errors.Is(err, ports.ErrConsumeRaceLost) {
			// Another process claimed the session first. Its claim already
			// names the order, so wait on that directly: the winner may not
			// have rewritten the session record yet.
			if claimed != uuid.Nil {
				return s.awaitOrder(ctx, claimed)
			}
			refreshed, getErr := s.sessions.Get(ctx, ref)
			if getErr != nil {
				return nil, mapError(getErr)
			}
			return s.orderForConsumed(ctx, refreshed)
		}
		return nil, mapError(err)
	}

	order, err := s.ledger.Materialize(ctx, ordersports.MaterializeInput{
		OrderID:         orderID,
		BuyerID:         session.BuyerID,
		Lines:           session.Lines,
		TotalPrice:      session.TotalPrice,
		ShippingAddress: session.ShippingAddress,
		PaidAt:          s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.runHooks(order)
	return order, nil
}

// orderForConsumed resolves the order bound to an already-consumed session.
func (s *Service) orderForConsumed(ctx context.Context, session *domain.Session) (*ordersdomain.Order, error) {
	if session.OrderID == nil {
		return nil, ErrSessionCorrupted
	}
	return s.awaitOrder(ctx, *session.OrderID)
}

// awaitOrder polls the ledger for an order id claimed by another confirmer.
// The winner may still be materializing, so lookups retry briefly before
// giving up.
func (s *Service) awaitOrder(ctx context.Context, orderID uuid.UUID) (*ordersdomain.Order, error) {
	var lastErr error
	for attempt := 0; attempt < claimRetryAttempts; attempt++ {
		order, err := s.ledger.GetByID(ctx, orderID)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ordersports.ErrNotFound) {
			return nil, err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(claimRetryDelay):
		}
	}
	return nil, lastErr
}

// runHooks fires post-confirmation side effects on detached goroutines.
// A hook failure is invisible to the buyer; hooks log their own errors.
func (s *Service) runHooks(order *ordersdomain.Order) {
	for _, hook := range s.hooks {
		go func(h ports.ConfirmedHook) {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("confirmation hook panicked",
						slog.String("order.id", order.ID.String()),
						slog.Any("panic", r))
				}
			}()
			hookCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.OrderConfirmed(hookCtx, order)
		}(hook)
	}
}

var _ ports.Service = (*Service)(nil)
