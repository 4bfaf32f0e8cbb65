// Package console implements the client-side core of the trading-operations
// console: persistent session storage, observable auth state, the cross-window
// login relay, the OAuth popup controller, the route guard, and the REST
// resource clients. Browser concepts (windows, storage, navigation) are
// expressed as small interfaces so every flow is testable without a browser.
package console

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// Session is the persisted console session: an optional bearer token and an
// optional cached user profile. An empty token means "no token"; a nil user
// means "no user". The two are independent — a token may exist briefly with
// no resolved user.
type Session struct {
	Token string           `json:"token,omitempty"`
	User  *domainauth.User `json:"user,omitempty"`
}

// LoggedIn reports whether the session carries a non-empty token. The cached
// user has no bearing on this.
func (s Session) LoggedIn() bool { return s.Token != "" }

// SessionStore persists the console session across restarts. Read never
// fails: malformed or absent stored data degrades to an empty slot so a
// corrupt store can never lock the user out of the sign-in flow.
type SessionStore interface {
	// Read returns the stored session. A missing or unparseable user slot
	// reads as nil, never as an error.
	Read() Session
	// WriteToken stores the token; empty clears the slot.
	WriteToken(token string) error
	// WriteUser stores the user profile as JSON; nil clears the slot.
	WriteUser(user *domainauth.User) error
	// Clear removes both slots.
	Clear() error
}

// MemoryStore is an in-process SessionStore, used in tests and by embedders
// that do not want persistence.
type MemoryStore struct {
	mu   sync.Mutex
	sess Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Read() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

func (m *MemoryStore) WriteToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess.Token = token
	return nil
}

func (m *MemoryStore) WriteUser(user *domainauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess.User = cloneUser(user)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = Session{}
	return nil
}

// FileStore persists the session as a JSON document on disk, the local
// equivalent of browser local storage. Writes go through a temp file and
// rename so a crash cannot leave a half-written session.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed session store at path. The file is
// created lazily on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// storedSession is the on-disk layout. The user slot stays raw so a malformed
// profile degrades to nil without losing the token.
type storedSession struct {
	Token string          `json:"token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"`
}

func (f *FileStore) Read() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLocked()
}

func (f *FileStore) readLocked() Session {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}
	}
	var raw storedSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return Session{}
	}
	sess := Session{Token: raw.Token}
	if len(raw.User) > 0 {
		var u domainauth.User
		if err := json.Unmarshal(raw.User, &u); err == nil {
			sess.User = &u
		}
		// Unparseable user reads as absent; the token survives.
	}
	return sess
}

func (f *FileStore) WriteToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess := f.readLocked()
	sess.Token = token
	return f.writeLocked(sess)
}

func (f *FileStore) WriteUser(user *domainauth.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess := f.readLocked()
	sess.User = user
	return f.writeLocked(sess)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) writeLocked(sess Session) error {
	raw := storedSession{Token: sess.Token}
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return err
		}
		raw.User = b
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// cloneUser copies a user so store contents cannot alias caller state.
func cloneUser(u *domainauth.User) *domainauth.User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Roles != nil {
		cp.Roles = make([]domainauth.Role, len(u.Roles))
		copy(cp.Roles, u.Roles)
	}
	return &cp
}
