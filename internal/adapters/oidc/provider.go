package oidc

// Package oidc provides the Google OIDC/OAuth2 AuthProvider for tradeops.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/ports"
)

// GoogleIssuer is the discovery issuer for Google accounts.
const GoogleIssuer = "https://accounts.google.com"

// Provider implements ports.AuthProvider against an OIDC issuer.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Issuer       string       // defaults to GoogleIssuer
	Scope        string       // defaults to "openid email profile"
	HTTPClient   *http.Client // optional
}

// NewProvider creates an OIDC provider. Discovery is fetched once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	issuer := config.Issuer
	if issuer == "" {
		issuer = GoogleIssuer
	}
	scope := config.Scope
	if scope == "" {
		scope = "openid email profile"
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, strings.TrimSuffix(issuer, "/"))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// Begin starts the login flow. The returned URL requests offline access with a
// forced consent screen so Google always reissues a refresh token.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return authURL, state, nonce, nil
}

// Exchange completes the login flow and returns the verified identity.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := idTokenFrom(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if in.Nonce != "" && claims.Nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}
	if claims.Email == "" {
		return domainauth.Identity{}, errors.New("id_token missing email claim")
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		Subject:   claims.Sub,
		Email:     claims.Email,
		Name:      firstNonEmpty(claims.Name, claims.GivenName),
		ExpiresAt: expiresAt,
	}, nil
}

// idTokenClaims is the subset of Google id_token claims we read.
type idTokenClaims struct {
	Sub       string `json:"sub"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
	Nonce     string `json:"nonce"`
}

func idTokenFrom(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", errors.New("missing id_token in token response")
	}
	return raw, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe random
// string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
