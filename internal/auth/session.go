package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "casedesk:session:"

// SessionStore keeps login sessions in Redis so logout and expiry work
// across every process. It only answers "is this session alive and whose
// is it"; authorization decisions always go back to Postgres.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

// Create records a live session for userID under sessionID with the
// store's TTL.
func (s *SessionStore) Create(ctx context.Context, sessionID string, userID int64) error {
	key := sessionKeyPrefix + sessionID
	if err := s.client.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UserID returns the owner of a live session, or false when the session
// is expired, revoked, or never existed.
func (s *SessionStore) UserID(ctx context.Context, sessionID string) (int64, bool, error) {
	key := sessionKeyPrefix + sessionID
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse session user id: %w", err)
	}

	return userID, true, nil
}

// Delete revokes a session. Deleting a missing session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
