package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/delivery/domain"
	"github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	"github.com/agrikart/fulfillment/internal/shared/lock"
)

// Service owns delivery-code generation and verification. All work on one
// order is serialized, so a verify racing a regenerate fails closed against
// the stale code rather than succeeding.
type Service struct {
	store    ports.OtpStore
	notifier ports.Notifier
	locks    *lock.Keyed
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the delivery-code service.
func NewService(store ports.OtpStore, notifier ports.Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		locks:    lock.NewKeyed(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Generate creates a fresh code, stores only its hash, and hands the
// plaintext to the notifier. Any previously active code for the order is
// displaced before the new one is dispatched.
func (s *Service) Generate(ctx context.Context, orderID uuid.UUID, destination string) (*ports.DispatchReceipt, error) {
	unlock := s.locks.Lock(orderID.String())
	defer unlock()

	code, err := domain.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("generate delivery code: %w", err)
	}
	otp := domain.NewOtp(orderID, domain.HashCode(code), s.now())
	if err := s.store.Replace(ctx, otp); err != nil {
		return nil, err
	}
	if err := s.notifier.SendDeliveryCode(ctx, destination, code); err != nil {
		// The code is stored and valid; dispatch failure is surfaced so the
		// caller can retry generation, which displaces this code.
		return nil, fmt.Errorf("dispatch delivery code: %w", err)
	}
	s.logger.Info("delivery code dispatched",
		slog.String("order.id", orderID.String()),
		slog.String("destination", maskDestination(destination)))
	return &ports.DispatchReceipt{
		OrderID:     orderID,
		Destination: maskDestination(destination),
		ExpiresAt:   otp.ExpiresAt,
	}, nil
}

// Verify checks a submitted code. Success consumes it; the stored record is
// updated on every attempt so attempt caps survive restarts.
func (s *Service) Verify(ctx context.Context, orderID uuid.UUID, submitted string) error {
	unlock := s.locks.Lock(orderID.String())
	defer unlock()

	otp, err := s.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	verifyErr := otp.Verify(submitted, s.now())
	switch {
	case verifyErr == nil:
		// Consumed: single-use, drop it.
		if err := s.store.Delete(ctx, orderID); err != nil {
			return err
		}
		return nil
	default:
		if err := s.store.Update(ctx, otp); err != nil {
			return err
		}
		return verifyErr
	}
}

// maskDestination hides all but a hint of the contact address in logs and
// receipts.
func maskDestination(destination string) string {
	at := strings.IndexByte(destination, '@')
	if at > 1 {
		return destination[:2] + "***" + destination[at:]
	}
	if len(destination) > 4 {
		return "***" + destination[len(destination)-4:]
	}
	return "***"
}

var _ ports.Service = (*Service)(nil)
