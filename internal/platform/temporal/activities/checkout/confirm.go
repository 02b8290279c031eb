package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// ConfirmSessionActivityName reconciles a paid session into an order.
const ConfirmSessionActivityName = "checkout.activities.ConfirmSession"

// Activities groups activities that operate on the checkout bounded context.
type Activities struct {
	checkout checkoutports.Service
}

// NewActivities wires the checkout reconciler into the Temporal activities bundle.
func NewActivities(checkout checkoutports.Service) *Activities {
	return &Activities{checkout: checkout}
}

// ConfirmSession runs the reconciler for one session ref. The reconciler is
// idempotent, so retried attempts converge on the same order.
func (a *Activities) ConfirmSession(ctx context.Context, sessionRef string) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.checkout == nil {
		logger.Error("confirm session activity not initialized", "sessionRef", sessionRef)
		return nil, errors.New("confirm session activity not initialized")
	}
	ref, err := uuid.Parse(sessionRef)
	if err != nil {
		logger.Error("confirm session activity got malformed ref", "sessionRef", sessionRef, "error", err)
		return nil, err
	}
	logger.Info("ConfirmSession activity started", "sessionRef", sessionRef)
	order, err := a.checkout.Confirm(ctx, ref)
	if err != nil {
		logger.Error("ConfirmSession activity failed", "sessionRef", sessionRef, "error", err)
		return nil, err
	}
	logger.Info("ConfirmSession activity completed", "sessionRef", sessionRef, "orderId", order.ID)
	return order, nil
}
