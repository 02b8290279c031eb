package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogEntry is one append-only fraud audit record. The core never mutates or
// deletes entries; retention is an external concern.
type LogEntry struct {
	ID        uuid.UUID
	BuyerID   string
	OrderID   uuid.UUID
	Amount    int64
	Reason    string
	Details   string // serialized evaluation context
	CreatedAt time.Time
}

// LogRepository appends and reads fraud audit records.
type LogRepository interface {
	Append(ctx context.Context, entry LogEntry) error
	ListByBuyer(ctx context.Context, buyerID string) ([]LogEntry, error)
}
