package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/testutil"
)

func testSession(token string) domainauth.Session {
	return domainauth.Session{
		Token: token,
		User: domainauth.User{
			ID:       7,
			Email:    "a@b.com",
			Username: "a",
			Roles:    []domainauth.Role{domainauth.NewRoleSummary(1, "Trader")},
		},
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestSessionCache_SaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client)
	ctx := context.Background()

	sess := testSession("tok-1")
	require.NoError(t, cache.Save(ctx, sess))

	got, err := cache.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.User.ID, got.User.ID)
	assert.Equal(t, sess.User.Email, got.User.Email)
	assert.Equal(t, "Trader", got.User.Roles[0].Name)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionCache_GetNonExistent(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionCache_Delete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, testSession("tok-2")))
	require.NoError(t, cache.Delete(ctx, "tok-2"))

	_, err := cache.Get(ctx, "tok-2")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown token is a no-op.
	assert.NoError(t, cache.Delete(ctx, "never-saved"))
}

func TestSessionCache_RejectsExpired(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client)
	sess := testSession("tok-3")
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	err := cache.Save(context.Background(), sess)
	assert.Error(t, err)
}

func TestSessionCache_RejectsEmptyToken(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	cache := NewSessionCache(client)

	err := cache.Save(context.Background(), domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)})
	assert.Error(t, err)

	_, err = cache.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionCache_KeyIsDigest(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	cache := NewSessionCacheWithPrefix(client, "tradeops:session:")
	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, testSession("raw-token-value")))

	// The raw token must not appear as a key.
	keys, err := client.Keys(ctx, "*raw-token-value*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = client.Keys(ctx, "tradeops:session:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
