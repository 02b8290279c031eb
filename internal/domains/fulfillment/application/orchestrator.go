// Package application composes the checkout, ledger, delivery, and fraud
// services behind the single fulfillment surface the transport layer talks to.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	checkoutdomain "github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	deliveryports "github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	"github.com/agrikart/fulfillment/internal/domains/fulfillment/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

const otpDispatchTimeout = 15 * time.Second

var _ ports.Service = (*Orchestrator)(nil)

// Orchestrator is the application facade over the bounded contexts. It owns
// the cross-context choreography: OTP generation when an order goes out for
// delivery, and the verified-delivery commit after a successful OTP check.
type Orchestrator struct {
	checkout     checkoutports.Service
	confirmation ports.ConfirmationOrchestrator
	ledger       ordersports.Service
	delivery     deliveryports.Service
	logger       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator wires the fulfillment facade.
func NewOrchestrator(
	checkout checkoutports.Service,
	confirmation ports.ConfirmationOrchestrator,
	ledger ordersports.Service,
	delivery deliveryports.Service,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		checkout:     checkout,
		confirmation: confirmation,
		ledger:       ledger,
		delivery:     delivery,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) CreateCheckoutSession(ctx context.Context, buyerID string, lines []checkoutports.CartLine, address ordersdomain.Address) (*checkoutdomain.Session, error) {
	return o.checkout.CreateSession(ctx, buyerID, lines, address)
}

func (o *Orchestrator) ConfirmCheckoutSession(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error) {
	return o.confirmation.Confirm(ctx, ref)
}

func (o *Orchestrator) ListBuyerOrders(ctx context.Context, buyerID string, page ordersports.Page) ([]*ordersdomain.Order, error) {
	return o.ledger.ListByBuyer(ctx, buyerID, page)
}

func (o *Orchestrator) ListSellerOrders(ctx context.Context, page ordersports.Page) ([]*ordersdomain.Order, error) {
	return o.ledger.ListBySeller(ctx, page)
}

// AdvanceStatus routes a Delivered target through the audited override and
// everything else through the plain transition. Entering OutForDelivery
// triggers a best-effort OTP dispatch; its failure never rolls the
// transition back, the seller can re-request a code explicitly.
func (o *Orchestrator) AdvanceStatus(ctx context.Context, orderID uuid.UUID, target ordersdomain.Status, actor ordersdomain.Actor) (*ordersdomain.Order, error) {
	if target == ordersdomain.StatusDelivered {
		return o.ledger.OverrideDelivered(ctx, orderID, actor)
	}

	order, err := o.ledger.Transition(ctx, orderID, target, actor)
	if err != nil {
		return nil, err
	}

	if order.Status == ordersdomain.StatusOutForDelivery {
		o.dispatchOtp(ctx, order)
	}
	return order, nil
}

func (o *Orchestrator) GenerateDeliveryOtp(ctx context.Context, orderID uuid.UUID, actor ordersdomain.Actor) (*deliveryports.DispatchReceipt, error) {
	if actor.Role != ordersdomain.RoleSeller && actor.Role != ordersdomain.RoleCourier {
		return nil, ordersdomain.ErrForbidden
	}
	order, err := o.ledger.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != ordersdomain.StatusOutForDelivery {
		return nil, fmt.Errorf("%w: order %s is %s, codes exist only out for delivery",
			ErrOtpNotApplicable, orderID, order.Status)
	}
	return o.delivery.Generate(ctx, orderID, order.BuyerID)
}

func (o *Orchestrator) VerifyDeliveryOtp(ctx context.Context, orderID uuid.UUID, code string) (*ordersdomain.Order, error) {
	if err := o.delivery.Verify(ctx, orderID, code); err != nil {
		return nil, err
	}
	order, err := o.ledger.MarkDeliveredVerified(ctx, orderID)
	if err != nil {
		// The code is consumed but the ledger write failed. Surface the
		// error; the seller falls back to the audited override.
		o.logger.ErrorContext(ctx, "verified delivery commit failed",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	return order, nil
}

func (o *Orchestrator) ListDeliveryJobs(ctx context.Context) ([]*ordersdomain.Order, error) {
	return o.ledger.ListDeliveryJobs(ctx)
}

func (o *Orchestrator) ClaimDeliveryJob(ctx context.Context, orderID uuid.UUID, courierID string) (*ordersdomain.Order, error) {
	return o.ledger.AssignCourier(ctx, orderID, courierID)
}

// dispatchOtp generates the delivery code off the request path. The buyer ID
// doubles as the notification destination; contact resolution lives in the
// notifier adapter.
func (o *Orchestrator) dispatchOtp(ctx context.Context, order *ordersdomain.Order) {
	detached := context.WithoutCancel(ctx)
	go func() {
		dispatchCtx, cancel := context.WithTimeout(detached, otpDispatchTimeout)
		defer cancel()
		if _, err := o.delivery.Generate(dispatchCtx, order.ID, order.BuyerID); err != nil {
			o.logger.WarnContext(dispatchCtx, "automatic delivery code dispatch failed",
				slog.String("order_id", order.ID.String()),
				slog.String("error", err.Error()))
		}
	}()
}

// ErrOtpNotApplicable marks OTP requests for orders that are not out for
// delivery.
var ErrOtpNotApplicable = errors.New("delivery code not applicable")
