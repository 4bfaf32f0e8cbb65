package auth

// Package auth contains domain-level types for authentication, sessions, and
// role/action based access control. It is pure and free of framework/adapter
// concerns.

import (
	"strings"
	"time"
)

// Action is an atomic permission grant (e.g. "CREATE_ASSET"). Actions only
// exist through role membership; identity is by ID.
type Action struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Role groups actions and is attached to users many-to-many.
//
// Two variants flow through the system: detailed roles hydrated from the REST
// layer carry their action list, while summary roles synthesized from an OAuth
// callback URL carry an empty one. NewRoleSummary makes the second variant
// explicit at call sites.
type Role struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// NewRoleSummary builds a role known only by name, as parsed from a callback
// URL. The action list is intentionally empty.
func NewRoleSummary(id int, name string) Role {
	return Role{ID: id, Name: name, Actions: []Action{}}
}

// User is the authenticated principal as exposed to the console and persisted
// in the session store.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

// HasRole reports whether the user holds a role with the given name.
// The match is case-insensitive and order-independent.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// HasAction reports whether any of the user's roles grants the named action.
func (u User) HasAction(name string) bool {
	for _, r := range u.Roles {
		for _, a := range r.Actions {
			if a.Name == name {
				return true
			}
		}
	}
	return false
}

// IsAdmin is the capability predicate used by both the server's admin-only
// routes and the console route guard.
func (u User) IsAdmin() bool { return u.HasRole("admin") }

// Session is the server-side record cached for an issued bearer token.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity represents the principal returned by an external IdP. Adapters map
// provider-specific claims into this shape.
type Identity struct {
	Subject   string // provider-stable identifier (e.g. Google "sub")
	Email     string
	Name      string
	ExpiresAt time.Time // absolute expiry from the provider token
}
