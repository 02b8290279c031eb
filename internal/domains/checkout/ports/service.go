package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// CartLine is the client-supplied cart input. Prices deliberately absent:
// they come from the catalog.
type CartLine struct {
	ProductID string
	Quantity  int32
}

// Service exposes the checkout reconciler use cases.
type Service interface {
	// CreateSession validates and prices the cart, freezes the total, and
	// opens a gateway checkout.
	CreateSession(ctx context.Context, buyerID string, lines []CartLine, address ordersdomain.Address) (*domain.Session, error)
	// Confirm reconciles a gateway confirmation with exactly one order.
	// Idempotent: repeated calls return the already-materialized order.
	Confirm(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error)
}

// ConfirmedHook runs after a session is confirmed for the first time.
// Failures are the hook's own concern; the reconciler never propagates them.
type ConfirmedHook interface {
	OrderConfirmed(ctx context.Context, order *ordersdomain.Order)
}
