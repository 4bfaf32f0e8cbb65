package console

import domainauth "github.com/quantbridge/tradeops/internal/domain/auth"

// Decision is the route guard verdict for a navigation.
type Decision int

const (
	// DecisionRender admits the navigation to the protected content.
	DecisionRender Decision = iota
	// DecisionSignIn redirects to the sign-in route: no credentials.
	DecisionSignIn
	// DecisionUnauthorized redirects to the unauthorized route: credentials
	// present but the required capability is missing.
	DecisionUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionSignIn:
		return "sign-in"
	case DecisionUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Guard decides whether a navigation to a protected route may proceed. It is
// a pure inspection of auth state — it never mutates anything.
//
// The store is consulted as a fallback when the AuthState has not hydrated
// yet, which prevents a flash redirect to sign-in on reload while valid
// cached credentials exist.
type Guard struct {
	State *AuthState
	Store SessionStore
}

// Evaluate re-runs the decision for the current state and an optional
// required capability (a role name, e.g. "admin"; empty means any
// authenticated user).
func (g Guard) Evaluate(requiredCapability string) Decision {
	snap := g.State.Snapshot()
	var stored Session
	if g.Store != nil {
		stored = g.Store.Read()
	}

	token := snap.Token
	if token == "" {
		token = stored.Token
	}
	user := snap.User
	if user == nil {
		user = stored.User
	}

	return Decide(token, user, requiredCapability)
}

// Decide is the guard's core decision function over explicit inputs.
func Decide(token string, user *domainauth.User, requiredCapability string) Decision {
	if token == "" {
		return DecisionSignIn
	}
	if requiredCapability == "" {
		return DecisionRender
	}
	if user == nil || !user.HasRole(requiredCapability) {
		return DecisionUnauthorized
	}
	return DecisionRender
}
