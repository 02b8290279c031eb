// Package ledger adapts the order repository into the sentinel's read-only
// history port. The order under evaluation is excluded from the window.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/fraud/ports"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

var _ ports.History = (*History)(nil)

// History reads past order totals from the order repository.
type History struct {
	orders ordersports.Repository
}

func NewHistory(orders ordersports.Repository) *History {
	return &History{orders: orders}
}

func (h *History) RecentTotals(ctx context.Context, buyerID string, exclude uuid.UUID, limit int) ([]int64, error) {
	// One extra row because the excluded order is usually in the window.
	list, err := h.orders.ListByBuyer(ctx, buyerID, ordersports.Page{Limit: limit + 1})
	if err != nil {
		return nil, err
	}
	totals := make([]int64, 0, len(list))
	for _, order := range list {
		if order.ID == exclude {
			continue
		}
		totals = append(totals, order.TotalPrice)
		if len(totals) == limit {
			break
		}
	}
	return totals, nil
}
