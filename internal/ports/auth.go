package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// TokenIssuer mints and verifies the bearer tokens handed to the console.
type TokenIssuer interface {
	// Issue signs a token for the user and returns it with its absolute expiry.
	Issue(user domainauth.User) (token string, expiresAt time.Time, err error)

	// Verify parses and validates a token, returning the subject (email) it
	// was issued for. Expired or tampered tokens fail.
	Verify(token string) (subject string, err error)
}

// SessionCache persists and retrieves token-keyed sessions.
type SessionCache interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, token string) (domainauth.Session, error)
	Delete(ctx context.Context, token string) error
}
