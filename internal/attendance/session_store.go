package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "attendance:session:"

	// SessionTTL bounds how long an abandoned session survives. A session
	// older than this is treated as stale and removed on the next read.
	SessionTTL = 24 * time.Hour

	SessionStatusActive = "active"
	SessionStatusIdle   = "idle"
)

// SessionStore tracks zero-or-one open session per employee. Sessions are
// keyed by employee id, so overlapping sessions of different employees
// never collide.
//
//go:generate mockgen -source=session_store.go -destination=mock/session_store_mock.go -package=mock
type SessionStore interface {
	Open(ctx context.Context, session ActiveSession) error
	// Get returns nil when no live session exists. Stale or unreadable
	// entries are deleted on the way out (lazy expiry).
	Get(ctx context.Context, employeeID string) (*ActiveSession, error)
	Touch(ctx context.Context, employeeID string) error
	Close(ctx context.Context, employeeID string) error
}

type redisSessionStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewSessionStore(rdb *redis.Client) SessionStore {
	return &redisSessionStore{rdb: rdb, now: time.Now}
}

// NewSessionStoreWithClock injects the clock; tests use it to cross the
// staleness boundary without sleeping.
func NewSessionStoreWithClock(rdb *redis.Client, now func() time.Time) SessionStore {
	return &redisSessionStore{rdb: rdb, now: now}
}

func sessionKey(employeeID string) string {
	return sessionKeyPrefix + employeeID
}

func (s *redisSessionStore) Open(ctx context.Context, session ActiveSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(session.EmployeeID), payload, SessionTTL).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, employeeID string) (*ActiveSession, error) {
	val, err := s.rdb.Get(ctx, sessionKey(employeeID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session ActiveSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		// Corrupt payload degrades to "no session" instead of failing reads
		_ = s.rdb.Del(ctx, sessionKey(employeeID)).Err()
		return nil, nil
	}

	if s.now().Sub(session.StartTime) > SessionTTL {
		if err := s.rdb.Del(ctx, sessionKey(employeeID)).Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &session, nil
}

func (s *redisSessionStore) Touch(ctx context.Context, employeeID string) error {
	session, err := s.Get(ctx, employeeID)
	if err != nil || session == nil {
		return err
	}

	session.LastPing = s.now()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(employeeID), payload, redis.KeepTTL).Err()
}

func (s *redisSessionStore) Close(ctx context.Context, employeeID string) error {
	return s.rdb.Del(ctx, sessionKey(employeeID)).Err()
}
