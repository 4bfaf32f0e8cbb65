package console

import (
	"fmt"
	"sync"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// AuthState is the single source of truth for the console's authentication
// state. It is constructed once at the composition root and passed explicitly
// to every component that needs it.
//
// Every mutation writes through to the SessionStore before updating the
// observable state, so the store and the state can never diverge after a
// mutator returns. Observers registered with OnChange see each settled
// snapshot in mutation order.
type AuthState struct {
	mu        sync.RWMutex
	store     SessionStore
	token     string
	user      *domainauth.User
	observers []func(Session)
}

// NewAuthState creates an AuthState seeded synchronously from the store, so a
// restart with valid cached credentials never flashes an unauthenticated
// state.
func NewAuthState(store SessionStore) *AuthState {
	sess := store.Read()
	return &AuthState{
		store: store,
		token: sess.Token,
		user:  sess.User,
	}
}

// Token returns the current bearer token, empty when signed out.
func (s *AuthState) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current cached user profile, nil when unresolved.
func (s *AuthState) User() *domainauth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// IsLoggedIn reports whether a non-empty token is held. It is derived from
// the token under the same lock, so no observer can see a token without the
// matching logged-in flag.
func (s *AuthState) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Snapshot returns token and user from a single consistent read.
func (s *AuthState) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{Token: s.token, User: cloneUser(s.user)}
}

// SetToken persists the token and then updates observable state. An empty
// token is a valid "clear" operation. On a store failure the observable state
// is left untouched.
func (s *AuthState) SetToken(token string) error {
	s.mu.Lock()
	if err := s.store.WriteToken(token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist token: %w", err)
	}
	s.token = token
	snap := Session{Token: s.token, User: cloneUser(s.user)}
	obs := s.observerList()
	s.mu.Unlock()

	notify(obs, snap)
	return nil
}

// SetUser persists the user profile and then updates observable state. Nil
// clears the cached profile.
func (s *AuthState) SetUser(user *domainauth.User) error {
	s.mu.Lock()
	if err := s.store.WriteUser(user); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist user: %w", err)
	}
	s.user = cloneUser(user)
	snap := Session{Token: s.token, User: cloneUser(s.user)}
	obs := s.observerList()
	s.mu.Unlock()

	notify(obs, snap)
	return nil
}

// Logout clears both store slots and the observable state together. Observers
// see a single transition to the signed-out snapshot; no intermediate state
// with a cleared token but a live user is ever visible. Logout is idempotent.
func (s *AuthState) Logout() error {
	s.mu.Lock()
	err := s.store.Clear()
	s.token = ""
	s.user = nil
	obs := s.observerList()
	s.mu.Unlock()

	notify(obs, Session{})
	if err != nil {
		return fmt.Errorf("clear session store: %w", err)
	}
	return nil
}

// OnChange registers an observer invoked after every settled mutation with
// the new snapshot. Observers run on the mutating goroutine.
func (s *AuthState) OnChange(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *AuthState) observerList() []func(Session) {
	obs := make([]func(Session), len(s.observers))
	copy(obs, s.observers)
	return obs
}

func notify(observers []func(Session), snap Session) {
	for _, fn := range observers {
		fn(snap)
	}
}
