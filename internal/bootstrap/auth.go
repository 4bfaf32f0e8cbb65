package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quantbridge/tradeops/config"
	"github.com/quantbridge/tradeops/internal/adapters/devauth"
	"github.com/quantbridge/tradeops/internal/adapters/oidc"
	"github.com/quantbridge/tradeops/internal/adapters/tokens"
	"github.com/quantbridge/tradeops/internal/ports"
	"github.com/quantbridge/tradeops/internal/service"
)

// AuthServiceConfig contains dependencies for auth service construction.
type AuthServiceConfig struct {
	Auth     config.AuthConfig
	Users    ports.UserRepository
	Sessions ports.SessionCache
	Logger   *slog.Logger
}

// BuildAuthService wires the token issuer and the configured identity
// provider into an AuthService.
func BuildAuthService(ctx context.Context, cfg AuthServiceConfig) (*service.AuthService, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	issuer, err := tokens.NewIssuer(tokens.IssuerOptions{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create token issuer: %w", err)
	}

	provider, err := buildAuthProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users:              cfg.Users,
		Tokens:             issuer,
		Sessions:           cfg.Sessions,
		Provider:           provider,
		ConsoleCallbackURL: cfg.Auth.ConsoleCallbackURL,
	}), nil
}

//nolint:ireturn // provider selection happens at runtime based on auth mode.
func buildAuthProvider(ctx context.Context, cfg AuthServiceConfig) (ports.AuthProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		if cfg.Logger != nil {
			cfg.Logger.Warn("mock auth enabled; do not use in production",
				"email", cfg.Auth.DevAuth.Email)
		}
		provider, err := devauth.NewProvider(devauth.Config{
			Subject: cfg.Auth.DevAuth.Subject,
			Email:   cfg.Auth.DevAuth.Email,
			Name:    cfg.Auth.DevAuth.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return provider, nil

	case config.AuthModeOAuth:
		google := cfg.Auth.Google
		if google.ClientID == "" || google.ClientSecret == "" {
			return nil, errors.New("google oauth requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
		}
		provider, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     google.ClientID,
			ClientSecret: google.ClientSecret,
			RedirectURL:  google.RedirectURL,
			Issuer:       google.Issuer,
			Scope:        google.Scope,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}
