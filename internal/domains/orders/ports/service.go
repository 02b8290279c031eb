package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// MaterializeInput carries the frozen checkout snapshot the ledger turns
// into a paid order. The total is asserted, never recomputed from it.
// OrderID is assigned by the reconciler when it claims the session, so a
// retried materialization converges on the same order.
type MaterializeInput struct {
	OrderID         uuid.UUID
	BuyerID         string
	Lines           []domain.OrderLine
	TotalPrice      int64
	ShippingAddress domain.Address
	PaidAt          time.Time
}

// Service exposes the order ledger use cases.
type Service interface {
	// Materialize creates the order aggregate with paymentState=paid and
	// status=Pending. Sole order creation path.
	Materialize(ctx context.Context, input MaterializeInput) (*domain.Order, error)
	// Transition advances the fulfillment state machine, capability-checked
	// against the actor.
	Transition(ctx context.Context, orderID uuid.UUID, target domain.Status, actor domain.Actor) (*domain.Order, error)
	// MarkDeliveredVerified sets Delivered through the OTP-guarded path.
	MarkDeliveredVerified(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	// OverrideDelivered sets Delivered without OTP proof. Seller-only and
	// always audit-logged.
	OverrideDelivered(ctx context.Context, orderID uuid.UUID, actor domain.Actor) (*domain.Order, error)
	AssignCourier(ctx context.Context, orderID uuid.UUID, courierID string) (*domain.Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string, page Page) ([]*domain.Order, error)
	ListBySeller(ctx context.Context, page Page) ([]*domain.Order, error)
	ListDeliveryJobs(ctx context.Context) ([]*domain.Order, error)
}
