package console

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// Flow selects how the provider authorization page is presented. The choice
// is made explicitly at call time rather than probed from the environment, so
// both variants stay deterministic and testable.
type Flow int

const (
	// FlowPopup opens a dedicated centered popup and returns immediately;
	// completion arrives asynchronously through the login relay.
	FlowPopup Flow = iota
	// FlowRedirect navigates the current window to the provider, for
	// environments where popups are blocked.
	FlowRedirect
)

// Popup geometry matches the original console: a fixed 500x600 window
// centered on the screen.
const (
	popupWidth  = 500
	popupHeight = 600
)

// ScreenSize is the dimensions of the user's screen in pixels.
type ScreenSize struct {
	Width  int
	Height int
}

// Geometry is the computed popup placement.
type Geometry struct {
	Width  int
	Height int
	Left   int
	Top    int
}

// CenteredGeometry computes a fixed-size popup centered on the given screen.
func CenteredGeometry(screen ScreenSize) Geometry {
	return Geometry{
		Width:  popupWidth,
		Height: popupHeight,
		Left:   screen.Width/2 - popupWidth/2,
		Top:    screen.Height/2 - popupHeight/2,
	}
}

// PopupControllerOptions groups dependencies for NewPopupController.
type PopupControllerOptions struct {
	// AuthEndpoint is the identity provider's authorization endpoint.
	AuthEndpoint string
	// ClientID is the OAuth client identifier.
	ClientID string
	// RedirectURI is the backend callback that finishes the provider
	// exchange and bounces the popup back into the console.
	RedirectURI string
	// Window is the console's top-level window.
	Window Window
	// OpenPopup opens a popup at the given URL and geometry. Returning nil
	// models a blocked popup, which simply means no completion message will
	// ever arrive.
	OpenPopup func(url string, g Geometry) Window
	// Screen is used for popup placement.
	Screen ScreenSize
}

// PopupController runs the opener half of the OAuth login flow.
type PopupController struct {
	opts PopupControllerOptions
}

// NewPopupController constructs a PopupController.
func NewPopupController(opts PopupControllerOptions) *PopupController {
	return &PopupController{opts: opts}
}

// AuthorizationURL builds the provider authorization request: an auth-code
// flow asking for email and profile scopes, offline access, and forced
// consent so a refresh token is issued.
func (c *PopupController) AuthorizationURL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.opts.ClientID)
	q.Set("redirect_uri", c.opts.RedirectURI)
	q.Set("scope", "email profile")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	return c.opts.AuthEndpoint + "?" + q.Encode()
}

// BeginLogin starts the login flow. FlowPopup opens the provider in a popup
// and returns immediately; FlowRedirect navigates the current window. Neither
// variant waits for a result — completion is delivered via the login relay,
// and a closed or blocked popup simply never completes.
func (c *PopupController) BeginLogin(flow Flow) error {
	authURL := c.AuthorizationURL()
	switch flow {
	case FlowRedirect:
		c.opts.Window.Navigate(authURL)
		return nil
	case FlowPopup:
		if c.opts.OpenPopup == nil {
			return fmt.Errorf("popup flow requires an OpenPopup hook")
		}
		c.opts.OpenPopup(authURL, CenteredGeometry(c.opts.Screen))
		return nil
	default:
		return fmt.Errorf("unknown login flow %d", flow)
	}
}

// Credentials is a parsed callback payload: the issued token plus the profile
// synthesized from the callback query parameters.
type Credentials struct {
	Token string
	User  domainauth.User
}

// ParseCallback extracts credentials from the OAuth callback query string.
// It returns false when token or email is missing, in which case nothing may
// be persisted. Roles arrive as a comma-separated name list and become
// summary roles with sequential ids and empty action lists; full role detail
// only exists on the REST layer.
func ParseCallback(q url.Values) (Credentials, bool) {
	token := q.Get("token")
	email := q.Get("email")
	if token == "" || email == "" {
		return Credentials{}, false
	}

	id, _ := strconv.Atoi(q.Get("id"))
	username := q.Get("username")
	if username == "" {
		username = email
		if i := strings.IndexByte(email, '@'); i >= 0 {
			username = email[:i]
		}
	}

	var roles []domainauth.Role
	if raw := q.Get("roles"); raw != "" {
		names := strings.Split(raw, ",")
		roles = make([]domainauth.Role, 0, len(names))
		for i, name := range names {
			roles = append(roles, domainauth.NewRoleSummary(i, name))
		}
	} else {
		roles = []domainauth.Role{}
	}

	return Credentials{
		Token: token,
		User: domainauth.User{
			ID:       id,
			Email:    email,
			Username: username,
			Roles:    roles,
		},
	}, true
}

// CallbackPage runs the popup half of the OAuth flow: the document the
// backend redirects to once the provider exchange is done, with the result
// encoded in the URL query.
type CallbackPage struct {
	// State is used only in the redirect-flow variant, when there is no
	// opener to post back to.
	State *AuthState
	// Window is the callback document's own window.
	Window Window
	// LandingRoute is where a successful redirect-flow login navigates.
	LandingRoute string
	// SignInRoute is where a failed redirect-flow login navigates.
	SignInRoute string
}

// Complete terminates the login attempt described by the callback query.
//
// Success with an opener posts the credentials to it at the page's own origin
// and closes the popup; the post is fire-and-forget, so the popup closes even
// if the opener is gone. Success without an opener applies the credentials
// directly and navigates to the landing route. A callback missing token or
// email closes the popup (or falls back to the sign-in route) without ever
// writing partial state.
func (p *CallbackPage) Complete(query url.Values) error {
	creds, ok := ParseCallback(query)
	if !ok {
		if p.Window.Opener() != nil {
			p.Window.Close()
			return nil
		}
		p.Window.Navigate(p.SignInRoute)
		return nil
	}

	if opener := p.Window.Opener(); opener != nil {
		opener.PostMessage(NewCredentialMessage(p.Window.Origin(), creds.Token, &creds.User))
		p.Window.Close()
		return nil
	}

	// Redirect-flow variant: no opener, apply in place. Token settles first.
	if err := p.State.SetToken(creds.Token); err != nil {
		return fmt.Errorf("apply token: %w", err)
	}
	if err := p.State.SetUser(&creds.User); err != nil {
		return fmt.Errorf("apply user: %w", err)
	}
	p.Window.Navigate(p.LandingRoute)
	return nil
}
