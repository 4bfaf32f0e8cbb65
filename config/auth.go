package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses Google OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// GoogleConfig contains Google OAuth/OIDC configuration.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`
	Scope        string `env:"SCOPE"        envDefault:"openid email profile"`
	// Issuer overrides the OIDC issuer URL, mainly for tests.
	Issuer string `env:"ISSUER"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Subject string `env:"SUBJECT" envDefault:"dev-subject"`
	Email   string `env:"EMAIL"   envDefault:"dev@example.com"`
	Name    string `env:"NAME"    envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// Google OAuth configuration (used when Mode=oauth).
	Google GoogleConfig `envPrefix:"GOOGLE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// JWTSecret signs the bearer tokens handed to the console.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the lifetime of an issued bearer token.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	// ConsoleCallbackURL is the console page the OAuth callback redirects to
	// with the issued credentials in the query string.
	ConsoleCallbackURL string `env:"CONSOLE_CALLBACK_URL" envDefault:"http://localhost:5173/auth/callback"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.TokenTTL <= 0 {
		a.TokenTTL = 12 * time.Hour
	}
}
