package redis

// Package redis provides Redis-based adapters for tradeops.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// SessionCache is a Redis-backed token session cache for production use.
// Keys are derived from a digest of the bearer token so raw tokens never
// appear in the keyspace; TTLs follow the session ExpiresAt.
type SessionCache struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionCache creates a Redis-backed session cache.
func NewSessionCache(client redis.UniversalClient) *SessionCache {
	return &SessionCache{client: client, prefix: "session:"}
}

// NewSessionCacheWithPrefix creates a session cache with a custom key prefix.
func NewSessionCacheWithPrefix(client redis.UniversalClient, prefix string) *SessionCache {
	return &SessionCache{client: client, prefix: prefix}
}

func (s *SessionCache) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.key(sess.Token), data, ttl).Err()
}

func (s *SessionCache) Get(ctx context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have evicted this already, but be defensive.
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, token); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionCache) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + hex.EncodeToString(sum[:])
}

// ErrNotFound is returned when a session is not cached.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
