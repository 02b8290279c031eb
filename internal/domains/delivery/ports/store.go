package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/delivery/domain"
)

var ErrOtpNotFound = errors.New("no active delivery code for order")

// OtpStore persists delivery codes, at most one active per order.
type OtpStore interface {
	// Replace stores the OTP, displacing any existing one for the order.
	Replace(ctx context.Context, otp *domain.Otp) error
	Get(ctx context.Context, orderID uuid.UUID) (*domain.Otp, error)
	// Update overwrites the stored OTP after a verification attempt.
	Update(ctx context.Context, otp *domain.Otp) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	// PurgeExpired removes codes past their expiry, returning the count.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
