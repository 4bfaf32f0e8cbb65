package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionCache = (*MemorySessionCache)(nil)
	_ ports.TokenIssuer  = (*MockTokenIssuer)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL         string
	StatePrefix     string
	NoncePrefix     string
	DefaultIdentity domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultIdentity: domainauth.Identity{
			Subject:   "mock-subject-1",
			Email:     "mock.user@example.com",
			Name:      "Mock User",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	// Generate deterministic state and nonce based on call count
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default identity with a fresh expiration time
	identity := m.DefaultIdentity
	if identity.Subject == "" {
		identity = domainauth.Identity{
			Subject: "mock-subject-1",
			Email:   "mock.user@example.com",
			Name:    "Mock User",
		}
	}
	identity.ExpiresAt = time.Now().Add(time.Hour)

	return identity, nil
}

// MemorySessionCache is an in-memory, token-keyed session cache for unit tests.
type MemorySessionCache struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionCache creates a new in-memory session cache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionCache) Save(_ context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}
	m.sessions[sess.Token] = sess
	return nil
}

func (m *MemorySessionCache) Get(_ context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[token]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		delete(m.sessions, token)
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionCache) Delete(_ context.Context, token string) error {
	if token == "" {
		return nil
	}
	delete(m.sessions, token)
	return nil
}

// Len reports how many sessions are cached.
func (m *MemorySessionCache) Len() int { return len(m.sessions) }

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MockTokenIssuer mints deterministic tokens for tests.
type MockTokenIssuer struct {
	IssueFunc  func(user domainauth.User) (string, time.Time, error)
	VerifyFunc func(token string) (string, error)

	TTL time.Duration

	issued  int
	subject map[string]string
}

// NewMockTokenIssuer creates a MockTokenIssuer with a one hour default TTL.
func NewMockTokenIssuer() *MockTokenIssuer {
	return &MockTokenIssuer{TTL: time.Hour, subject: make(map[string]string)}
}

func (m *MockTokenIssuer) Issue(user domainauth.User) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user)
	}

	m.issued++
	ttl := m.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	token := fmt.Sprintf("token-%d", m.issued)
	if m.subject == nil {
		m.subject = make(map[string]string)
	}
	m.subject[token] = user.Email
	return token, time.Now().Add(ttl), nil
}

func (m *MockTokenIssuer) Verify(token string) (string, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}

	sub, ok := m.subject[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return sub, nil
}
