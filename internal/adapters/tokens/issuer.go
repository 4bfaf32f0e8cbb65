package tokens

// Package tokens signs and verifies the bearer tokens the console presents on
// every API call. Tokens are HS256 JWTs; the session cache remains the source
// of truth for the user attached to a token.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

// ErrInvalidToken is returned for expired, tampered, or malformed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload for an issued session token.
type Claims struct {
	UserID   int      `json:"uid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issuer implements ports.TokenIssuer with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOptions configures an Issuer.
type IssuerOptions struct {
	Secret string
	TTL    time.Duration // default 12h when zero

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewIssuer constructs an Issuer from options.
func NewIssuer(opts IssuerOptions) (*Issuer, error) {
	if opts.Secret == "" {
		return nil, errors.New("tokens: secret is required")
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(opts.Secret), ttl: ttl, now: now}, nil
}

// Issue signs a token for the user with the subject set to their email.
func (i *Issuer) Issue(user domainauth.User) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique ID per token keeps two logins in the same second
			// from colliding in the session cache.
			ID:        uuid.NewString(),
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token and returns its subject.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
