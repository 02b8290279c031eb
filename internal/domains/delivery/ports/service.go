package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DispatchReceipt acknowledges that a code was generated and sent. It never
// carries the code itself.
type DispatchReceipt struct {
	OrderID     uuid.UUID
	Destination string // masked
	ExpiresAt   time.Time
}

// Service exposes delivery-code use cases.
type Service interface {
	// Generate creates a fresh code for the order, invalidating any prior
	// one, and dispatches the plaintext through the notifier.
	Generate(ctx context.Context, orderID uuid.UUID, destination string) (*DispatchReceipt, error)
	// Verify consumes the code on success. Mismatches burn attempts.
	Verify(ctx context.Context, orderID uuid.UUID, submitted string) error
}
