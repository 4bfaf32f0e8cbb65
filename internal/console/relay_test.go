package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
)

const testOrigin = "https://console.example.com"

func newTestRelay(t *testing.T) (*LoginRelay, *AuthState, *[]string) {
	t.Helper()
	state := NewAuthState(NewMemoryStore())
	var navigations []string
	relay := NewLoginRelay(LoginRelayOptions{
		State:        state,
		Origin:       testOrigin,
		LandingRoute: "/assets",
		Navigate:     func(route string) { navigations = append(navigations, route) },
	})
	return relay, state, &navigations
}

func TestLoginRelay_AcceptsSameOriginCredentials(t *testing.T) {
	relay, state, navigations := newTestRelay(t)

	user := &domainauth.User{ID: 1, Email: "a@b.com", Username: "a", Roles: []domainauth.Role{}}
	relay.Deliver(NewCredentialMessage(testOrigin, "abc", user))

	assert.Equal(t, "abc", state.Token())
	require.NotNil(t, state.User())
	assert.Equal(t, "a@b.com", state.User().Email)
	assert.Equal(t, []string{"/assets"}, *navigations)
}

func TestLoginRelay_TokenSettlesBeforeUser(t *testing.T) {
	relay, state, _ := newTestRelay(t)

	var snaps []Session
	state.OnChange(func(s Session) { snaps = append(snaps, s) })

	relay.Deliver(NewCredentialMessage(testOrigin, "abc", testUser("a@b.com")))

	// Two settled snapshots: token first with no user yet, then both. An
	// observer can never see a user without its token.
	require.Len(t, snaps, 2)
	assert.Equal(t, "abc", snaps[0].Token)
	assert.Nil(t, snaps[0].User)
	assert.Equal(t, "abc", snaps[1].Token)
	require.NotNil(t, snaps[1].User)
}

func TestLoginRelay_RejectsForeignOrigin(t *testing.T) {
	relay, state, navigations := newTestRelay(t)

	// A foreign origin must never mutate state, whatever the payload shape.
	relay.Deliver(NewCredentialMessage("https://evil.example.org", "abc", testUser("a@b.com")))
	relay.Deliver(Message{Kind: MessageKindCredentials, Origin: "", Token: "abc", User: testUser("a@b.com")})

	assert.False(t, state.IsLoggedIn())
	assert.Nil(t, state.User())
	assert.Empty(t, *navigations)
}

func TestLoginRelay_IgnoresIncompletePayloads(t *testing.T) {
	relay, state, navigations := newTestRelay(t)

	relay.Deliver(Message{Kind: MessageKindCredentials, Origin: testOrigin, Token: "abc"})
	relay.Deliver(Message{Kind: MessageKindCredentials, Origin: testOrigin, User: testUser("a@b.com")})
	relay.Deliver(Message{Kind: "unknown.v9", Origin: testOrigin, Token: "abc", User: testUser("a@b.com")})

	assert.False(t, state.IsLoggedIn())
	assert.Empty(t, *navigations)
}

func TestLoginRelay_UnboundDropsMessages(t *testing.T) {
	relay, state, navigations := newTestRelay(t)

	relay.Unbind()
	relay.Deliver(NewCredentialMessage(testOrigin, "abc", testUser("a@b.com")))

	assert.False(t, relay.Bound())
	assert.False(t, state.IsLoggedIn())
	assert.Empty(t, *navigations)
}
