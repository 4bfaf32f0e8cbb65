package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/quantbridge/tradeops/internal/data"
	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/ports"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so responses do not reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrSessionExpired is returned when a presented token has no live session.
var ErrSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    ports.UserRepository
	Tokens   ports.TokenIssuer
	Sessions ports.SessionCache
	Provider ports.AuthProvider

	// ConsoleCallbackURL is where CompleteGoogleLogin redirects the browser,
	// carrying the issued credentials as query parameters.
	ConsoleCallbackURL string
}

// AuthService orchestrates signup, password sign-in, and the Google OAuth
// flow, minting bearer tokens and caching their sessions.
type AuthService struct {
	users       ports.UserRepository
	tokens      ports.TokenIssuer
	sessions    ports.SessionCache
	provider    ports.AuthProvider
	callbackURL string
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		users:       opts.Users,
		tokens:      opts.Tokens,
		sessions:    opts.Sessions,
		provider:    opts.Provider,
		callbackURL: opts.ConsoleCallbackURL,
	}
}

// SessionResult is an issued session handed back to the console.
type SessionResult struct {
	Session domainauth.Session
}

// SignupInput groups parameters for registering a user.
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// Signup registers a user with a password credential and signs them in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SessionResult, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, errors.New("email is required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserInput{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Signin authenticates a password credential and issues a session.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*SessionResult, error) {
	rec, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if rec.PasswordHash == "" {
		// OAuth-only account; no password credential exists.
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, rec.User)
}

// BeginLoginResult contains the result of beginning an OAuth flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginGoogleLogin initiates the Google OAuth flow.
func (s *AuthService) BeginGoogleLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an OAuth flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the issued session and the console redirect.
type CompleteLoginResult struct {
	Session domainauth.Session

	// RedirectURL is the console callback page URL carrying the credentials
	// as query parameters.
	RedirectURL string
}

// CompleteGoogleLogin exchanges the authorization code, finds or provisions
// the user by email, and issues a session.
func (s *AuthService) CompleteGoogleLogin(
	ctx context.Context,
	in CompleteLoginInput,
) (*CompleteLoginResult, error) {
	if in.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if in.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if in.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(in))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	user, err := s.findOrProvision(ctx, identity)
	if err != nil {
		return nil, err
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &CompleteLoginResult{
		Session:     result.Session,
		RedirectURL: s.consoleRedirect(result.Session),
	}, nil
}

// SessionFromToken resolves a bearer token into its cached session. The token
// signature is verified before the cache is consulted.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*domainauth.Session, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	if _, err := s.tokens.Verify(token); err != nil {
		return nil, ErrSessionExpired
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Logout invalidates a bearer token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user domainauth.User) (*SessionResult, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	sess := domainauth.Session{Token: token, User: user, ExpiresAt: expiresAt}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &SessionResult{Session: sess}, nil
}

func (s *AuthService) findOrProvision(
	ctx context.Context,
	identity domainauth.Identity,
) (domainauth.User, error) {
	if identity.Email == "" {
		return domainauth.User{}, errors.New("identity has no email")
	}

	rec, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if identity.Subject != "" {
			if linkErr := s.users.LinkGoogleID(ctx, rec.User.ID, identity.Subject); linkErr != nil {
				return domainauth.User{}, fmt.Errorf("link provider subject: %w", linkErr)
			}
		}
		return rec.User, nil
	case errors.Is(err, data.ErrUserNotFound):
		var googleID *string
		if identity.Subject != "" {
			googleID = &identity.Subject
		}
		user, createErr := s.users.Create(ctx, ports.CreateUserInput{
			Email:    identity.Email,
			Username: identity.Name,
			GoogleID: googleID,
		})
		if createErr != nil {
			return domainauth.User{}, fmt.Errorf("provision user: %w", createErr)
		}
		return user, nil
	default:
		return domainauth.User{}, fmt.Errorf("look up user: %w", err)
	}
}

// consoleRedirect builds the callback page URL the browser is sent to after a
// completed OAuth flow. The console parses these parameters back into a
// session; role names ride along as a CSV.
func (s *AuthService) consoleRedirect(sess domainauth.Session) string {
	names := make([]string, 0, len(sess.User.Roles))
	for _, r := range sess.User.Roles {
		names = append(names, r.Name)
	}

	q := url.Values{
		"token":    {sess.Token},
		"id":       {strconv.Itoa(sess.User.ID)},
		"email":    {sess.User.Email},
		"username": {sess.User.Username},
	}
	if len(names) > 0 {
		q.Set("roles", strings.Join(names, ","))
	}
	return s.callbackURL + "?" + q.Encode()
}
