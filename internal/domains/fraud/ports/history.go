package ports

import (
	"context"

	"github.com/google/uuid"
)

// History gives the sentinel read-only access to a buyer's past order
// totals. Implemented over the order repository; fraud never writes orders.
type History interface {
	// RecentTotals returns up to limit past order totals for the buyer,
	// newest first. The order identified by exclude is left out: evaluation
	// runs on a detached hook, so the order under review may no longer be
	// the buyer's newest row.
	RecentTotals(ctx context.Context, buyerID string, exclude uuid.UUID, limit int) ([]int64, error)
}
