// Package notifier provides the buyer-facing confirmation hook. Real
// mail/SMS dispatch lives outside this core; the default adapter only
// proves the one-way contract.
package notifier

import (
	"context"
	"log/slog"

	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

var _ ports.ConfirmedHook = (*ConfirmationHook)(nil)

// ConfirmationHook notifies the buyer that their order was confirmed.
// Used for development; production wires the external notification service
// behind the same port.
type ConfirmationHook struct {
	logger *slog.Logger
}

func NewConfirmationHook(logger *slog.Logger) *ConfirmationHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfirmationHook{logger: logger}
}

func (h *ConfirmationHook) OrderConfirmed(ctx context.Context, order *ordersdomain.Order) {
	if order == nil {
		return
	}
	h.logger.InfoContext(ctx, "order confirmation notification requested",
		slog.String("event", "order_confirmed"),
		slog.String("order.id", order.ID.String()),
		slog.String("buyer.id", order.BuyerID),
		slog.Int64("order.total", order.TotalPrice))
}
