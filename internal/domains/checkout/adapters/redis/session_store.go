package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

const (
	sessionKeyPrefix = "checkout:session:"
	claimKeyPrefix   = "checkout:claim:"
)

// SessionStore keeps checkout sessions in Redis with a TTL. The consume CAS
// is a SETNX claim key, so exactly one process wins the confirmation race.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore wires a Redis-backed session store. Sessions expire after
// ttl whether or not they were consumed.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+session.Ref.String(), payload, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, ref uuid.UUID) (*domain.Session, error) {
	payload, err := s.rdb.Get(ctx, sessionKeyPrefix+ref.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Consume claims the session with SETNX. The claim key's value is the
// winner's order id; a loser reads it back so it can resolve the winning
// order even before the winner rewrites the session record.
func (s *SessionStore) Consume(ctx context.Context, ref uuid.UUID, orderID uuid.UUID) (uuid.UUID, error) {
	claimKey := claimKeyPrefix + ref.String()
	won, err := s.rdb.SetNX(ctx, claimKey, orderID.String(), s.ttl).Result()
	if err != nil {
		return uuid.Nil, err
	}
	if !won {
		claimed, err := s.rdb.Get(ctx, claimKey).Result()
		if err != nil {
			return uuid.Nil, ports.ErrConsumeRaceLost
		}
		winner, err := uuid.Parse(claimed)
		if err != nil {
			return uuid.Nil, ports.ErrConsumeRaceLost
		}
		return winner, ports.ErrConsumeRaceLost
	}
	session, err := s.Get(ctx, ref)
	if err != nil {
		return uuid.Nil, err
	}
	if err := session.Consume(orderID); err != nil {
		return uuid.Nil, ports.ErrConsumeRaceLost
	}
	if err := s.Save(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

// PurgeStale is a no-op for Redis: keys carry their own TTL.
func (s *SessionStore) PurgeStale(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
