package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	// No session
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}

	// With session
	sess := &domainauth.Session{
		Token: "token-1",
		User:  domainauth.User{ID: 7, Email: "trader@example.com"},
	}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)

	// Nil session leaves the context unchanged
	same := SetSessionInContext(context.Background(), nil)
	_, ok = GetUserSessionFromContext(same)
	assert.False(t, ok)
}

func TestCurrentUserID(t *testing.T) {
	assert.Zero(t, CurrentUserID(context.Background()))

	sess := &domainauth.Session{User: domainauth.User{ID: 42}}
	ctx := SetSessionInContext(context.Background(), sess)
	assert.Equal(t, 42, CurrentUserID(ctx))
	assert.Equal(t, sess, GetSessionFromContext(ctx))
}
