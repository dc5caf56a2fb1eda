package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the production session store: JSON-serialized sessions
// under a key prefix, expired by Redis TTL. The TTL is refreshed on every
// write, so a session stays alive as long as the client stays active.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // not found
	}

	if err != nil {
		return nil, fmt.Errorf("session store: failed to get: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session store: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("session store: missing session_id")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session store: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(s.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session store: failed to set: %w", err)
	}

	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session store: failed to delete: %w", err)
	}

	return nil
}
