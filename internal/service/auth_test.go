package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/quantbridge/tradeops/internal/data"
	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/mocks"
	authmocks "github.com/quantbridge/tradeops/internal/mocks/auth"
	"github.com/quantbridge/tradeops/internal/ports"
)

type authFixture struct {
	users    *mocks.MockUserRepository
	tokens   *authmocks.MockTokenIssuer
	sessions *authmocks.MemorySessionCache
	provider *authmocks.MockAuthProvider
	service  *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &authFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		tokens:   authmocks.NewMockTokenIssuer(),
		sessions: authmocks.NewMemorySessionCache(),
		provider: authmocks.NewMockAuthProvider(),
	}
	f.service = NewAuthService(AuthServiceOptions{
		Users:              f.users,
		Tokens:             f.tokens,
		Sessions:           f.sessions,
		Provider:           f.provider,
		ConsoleCallbackURL: "https://console.example.com/auth/callback",
	})
	return f
}

func TestAuthService_Signup(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	created := domainauth.User{ID: 1, Email: "pm@example.com", Username: "pm"}
	f.users.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, in ports.CreateUserInput) (domainauth.User, error) {
			assert.Equal(t, "pm@example.com", in.Email)
			assert.Equal(t, "pm", in.Username)
			// The stored credential must be a bcrypt hash, never the password.
			assert.NotEqual(t, "hunter2secret", in.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(in.PasswordHash), []byte("hunter2secret")))
			return created, nil
		})

	result, err := f.service.Signup(ctx, SignupInput{
		Email:    "pm@example.com",
		Username: "pm",
		Password: "hunter2secret",
	})
	require.NoError(t, err)
	assert.Equal(t, created, result.Session.User)
	assert.NotEmpty(t, result.Session.Token)

	// The session is retrievable by its token.
	got, err := f.sessions.Get(ctx, result.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, "pm@example.com", got.User.Email)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, SignupInput{Email: " ", Password: "longenough"})
	assert.ErrorContains(t, err, "email")

	_, err = f.service.Signup(ctx, SignupInput{Email: "pm@example.com", Password: "short"})
	assert.ErrorContains(t, err, "at least 8")
}

func TestAuthService_Signin(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	require.NoError(t, err)
	rec := ports.UserRecord{
		User:         domainauth.User{ID: 3, Email: "pm@example.com", Username: "pm"},
		PasswordHash: string(hash),
	}

	f.users.EXPECT().GetByEmail(ctx, "pm@example.com").Return(rec, nil).Times(2)

	result, err := f.service.Signin(ctx, "pm@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Session.User.ID)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))

	_, err = f.service.Signin(ctx, "pm@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Signin_UnknownEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		GetByEmail(ctx, "nobody@example.com").
		Return(ports.UserRecord{}, data.ErrUserNotFound)

	_, err := f.service.Signin(ctx, "nobody@example.com", "whatever123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Signin_OAuthOnlyAccount(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	// Provisioned through Google; no password hash on record.
	f.users.EXPECT().
		GetByEmail(ctx, "sso@example.com").
		Return(ports.UserRecord{User: domainauth.User{ID: 9, Email: "sso@example.com"}}, nil)

	_, err := f.service.Signin(ctx, "sso@example.com", "anything12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BeginGoogleLogin(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	result, err := f.service.BeginGoogleLogin(context.Background(), "https://api.example.com/auth/google/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)

	_, err = f.service.BeginGoogleLogin(context.Background(), "")
	assert.ErrorContains(t, err, "redirect URL")
}

func TestAuthService_CompleteGoogleLogin_ExistingUser(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	user := domainauth.User{
		ID:       5,
		Email:    "mock.user@example.com",
		Username: "mock.user",
		Roles: []domainauth.Role{
			{ID: 1, Name: "admin"},
			{ID: 2, Name: "trader"},
		},
	}
	f.users.EXPECT().
		GetByEmail(ctx, "mock.user@example.com").
		Return(ports.UserRecord{User: user}, nil)
	f.users.EXPECT().LinkGoogleID(ctx, 5, "mock-subject-1").Return(nil)

	result, err := f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Session.User.ID)

	// Redirect carries the credentials the console callback page parses.
	parsed, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.RedirectURL, "https://console.example.com/auth/callback?"))
	q := parsed.Query()
	assert.Equal(t, result.Session.Token, q.Get("token"))
	assert.Equal(t, "5", q.Get("id"))
	assert.Equal(t, "mock.user@example.com", q.Get("email"))
	assert.Equal(t, "mock.user", q.Get("username"))
	assert.Equal(t, "admin,trader", q.Get("roles"))
}

func TestAuthService_CompleteGoogleLogin_ProvisionsNewUser(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		GetByEmail(ctx, "mock.user@example.com").
		Return(ports.UserRecord{}, data.ErrUserNotFound)
	f.users.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, in ports.CreateUserInput) (domainauth.User, error) {
			assert.Equal(t, "mock.user@example.com", in.Email)
			assert.Empty(t, in.PasswordHash)
			require.NotNil(t, in.GoogleID)
			assert.Equal(t, "mock-subject-1", *in.GoogleID)
			return domainauth.User{ID: 11, Email: in.Email, Username: "mock.user"}, nil
		})

	result, err := f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, result.Session.User.ID)

	parsed, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	// No roles yet, so no roles parameter.
	assert.False(t, parsed.Query().Has("roles"))
}

func TestAuthService_CompleteGoogleLogin_ExchangeFailure(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("state mismatch")
	}

	_, err := f.service.CompleteGoogleLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "tampered",
		Nonce: "nonce-1",
	})
	assert.ErrorContains(t, err, "state mismatch")
}

func TestAuthService_CompleteGoogleLogin_Validation(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{State: "s", Nonce: "n"})
	assert.ErrorContains(t, err, "authorization code")

	_, err = f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{Code: "c", Nonce: "n"})
	assert.ErrorContains(t, err, "state")

	_, err = f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{Code: "c", State: "s"})
	assert.ErrorContains(t, err, "nonce")
}

func TestAuthService_SessionFromToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		GetByEmail(ctx, "mock.user@example.com").
		Return(ports.UserRecord{}, data.ErrUserNotFound)
	f.users.EXPECT().
		Create(ctx, gomock.Any()).
		Return(domainauth.User{ID: 2, Email: "mock.user@example.com"}, nil)

	result, err := f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{
		Code: "c", State: "s", Nonce: "n",
	})
	require.NoError(t, err)

	sess, err := f.service.SessionFromToken(ctx, result.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.User.ID)

	_, err = f.service.SessionFromToken(ctx, "")
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = f.service.SessionFromToken(ctx, "forged-token")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_SessionFromToken_EvictedSession(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		GetByEmail(ctx, "mock.user@example.com").
		Return(ports.UserRecord{}, data.ErrUserNotFound)
	f.users.EXPECT().
		Create(ctx, gomock.Any()).
		Return(domainauth.User{ID: 2, Email: "mock.user@example.com"}, nil)

	result, err := f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{
		Code: "c", State: "s", Nonce: "n",
	})
	require.NoError(t, err)

	// Token still verifies, but the cache entry is gone.
	require.NoError(t, f.sessions.Delete(ctx, result.Session.Token))
	_, err = f.service.SessionFromToken(ctx, result.Session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.EXPECT().
		GetByEmail(ctx, "mock.user@example.com").
		Return(ports.UserRecord{}, data.ErrUserNotFound)
	f.users.EXPECT().
		Create(ctx, gomock.Any()).
		Return(domainauth.User{ID: 2, Email: "mock.user@example.com"}, nil)

	result, err := f.service.CompleteGoogleLogin(ctx, CompleteLoginInput{
		Code: "c", State: "s", Nonce: "n",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, result.Session.Token))
	_, err = f.service.SessionFromToken(ctx, result.Session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Empty token logout is a no-op.
	assert.NoError(t, f.service.Logout(ctx, ""))
}
