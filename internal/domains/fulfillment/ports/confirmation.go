package ports

import (
	"context"

	"github.com/google/uuid"

	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// ConfirmationOrchestrator runs the checkout confirmation pipeline. The
// Temporal adapter keys the workflow by session ref so concurrent callbacks
// collapse onto one execution; the inline adapter calls the reconciler
// directly and relies on its per-ref locking.
type ConfirmationOrchestrator interface {
	Confirm(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error)
}
