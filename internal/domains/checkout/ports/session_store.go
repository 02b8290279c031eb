package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/checkout/domain"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrConsumeRaceLost is returned by Consume when another caller already
	// consumed the session. The loser should resolve the winner's order.
	ErrConsumeRaceLost = errors.New("checkout session consumed concurrently")
)

// SessionStore persists checkout sessions. Consume must behave as a
// compare-and-set on the consumed flag: exactly one caller wins.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, ref uuid.UUID) (*domain.Session, error)
	// Consume atomically flips consumed=false→true, binds the order id, and
	// returns the id now bound to the session. On ErrConsumeRaceLost that is
	// the winner's order id (uuid.Nil when the store cannot resolve it), so
	// the loser can wait for that order instead of rereading a session record
	// the winner may not have written yet.
	Consume(ctx context.Context, ref uuid.UUID, orderID uuid.UUID) (uuid.UUID, error)
	// PurgeStale removes unconsumed sessions older than the cutoff.
	PurgeStale(ctx context.Context, cutoff time.Time) (int64, error)
}
