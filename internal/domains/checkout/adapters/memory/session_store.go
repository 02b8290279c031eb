package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps checkout sessions in memory. The consume CAS runs under
// the store mutex, giving the single-writer guarantee in one process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[uuid.UUID]*domain.Session{}}
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := cloneSession(session)
	s.sessions[session.Ref] = clone
	return nil
}

func (s *SessionStore) Get(_ context.Context, ref uuid.UUID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[ref]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *SessionStore) Consume(_ context.Context, ref uuid.UUID, orderID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[ref]
	if !ok {
		return uuid.Nil, ports.ErrSessionNotFound
	}
	if session.Consumed {
		winner := uuid.Nil
		if session.OrderID != nil {
			winner = *session.OrderID
		}
		return winner, ports.ErrConsumeRaceLost
	}
	if err := session.Consume(orderID); err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

func (s *SessionStore) PurgeStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for ref, session := range s.sessions {
		if !session.Consumed && session.CreatedAt.Before(cutoff) {
			delete(s.sessions, ref)
			purged++
		}
	}
	return purged, nil
}

func cloneSession(session *domain.Session) *domain.Session {
	clone := *session
	clone.Lines = append(session.Lines[:0:0], session.Lines...)
	if session.OrderID != nil {
		id := *session.OrderID
		clone.OrderID = &id
	}
	return &clone
}
