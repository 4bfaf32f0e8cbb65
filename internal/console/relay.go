package console

import (
	"log/slog"
	"sync"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// MessageKindCredentials tags the one cross-window message kind the console
// understands. The version suffix lets a future payload change coexist with
// old popups during a rollout.
const MessageKindCredentials = "credentials.v1"

// Message is a typed cross-window message. Origin is the declared origin of
// the sending document; the relay enforces it against its own origin before
// looking at the payload.
type Message struct {
	Kind   string
	Origin string
	Token  string
	User   *domainauth.User
}

// NewCredentialMessage builds a credentials message as posted by the OAuth
// callback page.
func NewCredentialMessage(origin, token string, user *domainauth.User) Message {
	return Message{Kind: MessageKindCredentials, Origin: origin, Token: token, User: user}
}

// Window models the slice of a browser window the auth flow touches. The
// production shell supplies a real implementation; tests use fakes.
type Window interface {
	// Origin is the document origin, e.g. "https://console.example.com".
	Origin() string
	// Navigate performs a full top-level navigation.
	Navigate(url string)
	// Close closes the window. Closing an already-closed window is a no-op.
	Close()
	// Opener returns the window that opened this one, or nil.
	Opener() Window
	// PostMessage delivers a message to this window's bound relay, if any.
	// Delivery is fire-and-forget: posting to a window with no listener
	// drops the message.
	PostMessage(msg Message)
}

// LoginRelay receives completed login credentials from a popup window and
// feeds them into the AuthState. All validation for the cross-window boundary
// lives here: origin, message kind, and payload shape are checked once, and
// anything that fails is dropped silently — rejection is a security filter,
// not an error path.
//
// One relay is active per console window at a time; Unbind deactivates it.
type LoginRelay struct {
	mu     sync.Mutex
	bound  bool
	state  *AuthState
	origin string

	landingRoute string
	navigate     func(route string)
	logger       *slog.Logger
}

// LoginRelayOptions groups dependencies for NewLoginRelay.
type LoginRelayOptions struct {
	State        *AuthState
	Origin       string             // the console's own origin
	LandingRoute string             // route navigated to after login, e.g. "/assets"
	Navigate     func(route string) // top-level navigation hook
	Logger       *slog.Logger       // optional
}

// NewLoginRelay constructs a bound relay. The relay is active until Unbind.
func NewLoginRelay(opts LoginRelayOptions) *LoginRelay {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginRelay{
		bound:        true,
		state:        opts.State,
		origin:       opts.Origin,
		landingRoute: opts.LandingRoute,
		navigate:     opts.Navigate,
		logger:       logger,
	}
}

// Deliver processes one incoming window message. Valid credentials are
// applied token-first — so no observer ever sees a user without its token —
// and then the console navigates to the landing route.
func (r *LoginRelay) Deliver(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.bound {
		return
	}
	if msg.Origin != r.origin {
		// Cross-origin messages are discarded without logging payload
		// contents.
		r.logger.Debug("relay dropped cross-origin message", "origin", msg.Origin)
		return
	}
	if msg.Kind != MessageKindCredentials {
		return
	}
	if msg.Token == "" || msg.User == nil {
		return
	}

	if err := r.state.SetToken(msg.Token); err != nil {
		r.logger.Error("relay failed to persist token", "error", err)
		return
	}
	if err := r.state.SetUser(msg.User); err != nil {
		r.logger.Error("relay failed to persist user", "error", err)
		return
	}
	if r.navigate != nil {
		r.navigate(r.landingRoute)
	}
}

// Unbind deactivates the relay. Messages delivered afterwards are dropped,
// mirroring a removed window listener.
func (r *LoginRelay) Unbind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bound = false
}

// Bound reports whether the relay is still active.
func (r *LoginRelay) Bound() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bound
}
