package console

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

func testUser(email string) *domainauth.User {
	return &domainauth.User{
		ID:       1,
		Email:    email,
		Username: "trader1",
		Roles:    []domainauth.Role{domainauth.NewRoleSummary(0, "Trader")},
	}
}

func TestAuthState_SeedsFromStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.WriteToken("tok-1"))
	require.NoError(t, store.WriteUser(testUser("a@b.com")))

	state := NewAuthState(store)

	assert.Equal(t, "tok-1", state.Token())
	assert.True(t, state.IsLoggedIn())
	require.NotNil(t, state.User())
	assert.Equal(t, "a@b.com", state.User().Email)
}

func TestAuthState_StoreNeverDiverges(t *testing.T) {
	// After any sequence of mutators, the store contents must equal the
	// observable state.
	store := NewMemoryStore()
	state := NewAuthState(store)

	check := func() {
		t.Helper()
		snap := state.Snapshot()
		stored := store.Read()
		assert.Equal(t, snap.Token, stored.Token)
		if snap.User == nil {
			assert.Nil(t, stored.User)
		} else {
			require.NotNil(t, stored.User)
			assert.Equal(t, snap.User.Email, stored.User.Email)
		}
	}

	require.NoError(t, state.SetToken("t1"))
	check()
	require.NoError(t, state.SetUser(testUser("a@b.com")))
	check()
	require.NoError(t, state.SetToken("t2"))
	check()
	require.NoError(t, state.SetUser(nil))
	check()
	require.NoError(t, state.Logout())
	check()
	require.NoError(t, state.SetToken("t3"))
	check()
}

func TestAuthState_LogoutIdempotent(t *testing.T) {
	store := NewMemoryStore()
	state := NewAuthState(store)
	require.NoError(t, state.SetToken("tok"))
	require.NoError(t, state.SetUser(testUser("a@b.com")))

	require.NoError(t, state.Logout())
	require.NoError(t, state.Logout())

	assert.False(t, state.IsLoggedIn())
	assert.Empty(t, state.Token())
	assert.Nil(t, state.User())
	stored := store.Read()
	assert.Empty(t, stored.Token)
	assert.Nil(t, stored.User)
}

func TestAuthState_LogoutObservedAtomically(t *testing.T) {
	store := NewMemoryStore()
	state := NewAuthState(store)
	require.NoError(t, state.SetToken("tok"))
	require.NoError(t, state.SetUser(testUser("a@b.com")))

	var snaps []Session
	state.OnChange(func(s Session) { snaps = append(snaps, s) })

	require.NoError(t, state.Logout())

	// One transition: token and user cleared together, never a snapshot
	// with one cleared and the other live.
	require.Len(t, snaps, 1)
	assert.Empty(t, snaps[0].Token)
	assert.Nil(t, snaps[0].User)
}

func TestAuthState_SetTokenEmptyClears(t *testing.T) {
	store := NewMemoryStore()
	state := NewAuthState(store)
	require.NoError(t, state.SetToken("tok"))

	require.NoError(t, state.SetToken(""))

	assert.False(t, state.IsLoggedIn())
	assert.Empty(t, store.Read().Token)
}

func TestAuthState_UserCopiesDoNotAlias(t *testing.T) {
	store := NewMemoryStore()
	state := NewAuthState(store)
	u := testUser("a@b.com")
	require.NoError(t, state.SetUser(u))

	u.Email = "mutated@b.com"

	assert.Equal(t, "a@b.com", state.User().Email)
}

func TestAuthState_FileStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := NewAuthState(NewFileStore(path))
	require.NoError(t, first.SetToken("tok"))
	require.NoError(t, first.SetUser(testUser("a@b.com")))

	// A fresh state over the same file hydrates without flashing
	// unauthenticated.
	second := NewAuthState(NewFileStore(path))
	assert.True(t, second.IsLoggedIn())
	assert.Equal(t, "tok", second.Token())
	require.NotNil(t, second.User())
	assert.Equal(t, "a@b.com", second.User().Email)
}
