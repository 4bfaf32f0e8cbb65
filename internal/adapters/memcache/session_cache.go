package memcache

// Package memcache provides an in-process session cache for single-instance
// deployments where Redis is not configured. Sessions do not survive a
// process restart.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// SessionCache is a mutex-guarded token session cache. Expired entries are
// evicted lazily on read and swept opportunistically on write.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

// NewSessionCache creates an empty in-process session cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{
		sessions: make(map[string]domainauth.Session),
		now:      time.Now,
	}
}

func (c *SessionCache) Save(_ context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}
	if !sess.ExpiresAt.After(c.now()) {
		return errors.New("session is expired")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	c.sessions[sess.Token] = sess
	return nil
}

func (c *SessionCache) Get(_ context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[token]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	if !sess.ExpiresAt.After(c.now()) {
		delete(c.sessions, token)
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (c *SessionCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
	return nil
}

// sweepLocked drops expired sessions. Callers must hold the mutex.
func (c *SessionCache) sweepLocked() {
	now := c.now()
	for token, sess := range c.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(c.sessions, token)
		}
	}
}
