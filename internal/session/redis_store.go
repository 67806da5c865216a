package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore is a Redis-backed session store. Expiry is enforced by the key
// TTL, so expired sessions vanish without a cleanup job.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func (s *RedisStore) key(sessionID string) string {
	return keyPrefix + sessionID
}

// Create persists the session with a TTL derived from its expiry.
func (s *RedisStore) Create(ctx context.Context, sess Session) error {
	if sess.ID == "" || sess.UserID == uuid.Nil {
		return fmt.Errorf("session: missing id or user id")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

// Get returns the session, or (nil, nil) if it is missing or expired.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &sess, nil
}

// Delete removes the session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
