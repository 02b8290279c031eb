package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/delivery/domain"
	"github.com/agrikart/fulfillment/internal/domains/delivery/ports"
)

var _ ports.OtpStore = (*Store)(nil)

// Store keeps delivery codes in memory, one active per order.
type Store struct {
	mu    sync.RWMutex
	codes map[uuid.UUID]*domain.Otp
}

func NewStore() *Store {
	return &Store{codes: map[uuid.UUID]*domain.Otp{}}
}

func (s *Store) Replace(_ context.Context, otp *domain.Otp) error {
	if otp == nil {
		return errors.New("otp is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *otp
	s.codes[otp.OrderID] = &clone
	return nil
}

func (s *Store) Get(_ context.Context, orderID uuid.UUID) (*domain.Otp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	otp, ok := s.codes[orderID]
	if !ok {
		return nil, ports.ErrOtpNotFound
	}
	clone := *otp
	return &clone, nil
}

func (s *Store) Update(_ context.Context, otp *domain.Otp) error {
	if otp == nil {
		return errors.New("otp is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[otp.OrderID]; !ok {
		return ports.ErrOtpNotFound
	}
	clone := *otp
	s.codes[otp.OrderID] = &clone
	return nil
}

func (s *Store) Delete(_ context.Context, orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, orderID)
	return nil
}

func (s *Store) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for orderID, otp := range s.codes {
		if now.After(otp.ExpiresAt) {
			delete(s.codes, orderID)
			purged++
		}
	}
	return purged, nil
}
