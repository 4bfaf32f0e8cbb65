package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_HasRole_CaseInsensitive(t *testing.T) {
	u := User{Roles: []Role{
		NewRoleSummary(0, "Admin"),
		NewRoleSummary(1, "Trader"),
	}}

	assert.True(t, u.HasRole("admin"))
	assert.True(t, u.HasRole("ADMIN"))
	assert.True(t, u.HasRole("trader"))
	assert.False(t, u.HasRole("viewer"))
}

func TestUser_HasRole_OrderIndependent(t *testing.T) {
	// Membership is a presence test; position in the slice must not matter.
	first := User{Roles: []Role{NewRoleSummary(0, "trader"), NewRoleSummary(1, "admin")}}
	second := User{Roles: []Role{NewRoleSummary(0, "admin"), NewRoleSummary(1, "trader")}}

	assert.True(t, first.HasRole("admin"))
	assert.True(t, second.HasRole("admin"))
}

func TestUser_HasAction(t *testing.T) {
	u := User{Roles: []Role{
		{ID: 1, Name: "trader", Actions: []Action{
			{ID: 10, Name: "VIEW_ASSET"},
			{ID: 11, Name: "CREATE_TRADE"},
		}},
		{ID: 2, Name: "viewer", Actions: []Action{
			{ID: 10, Name: "VIEW_ASSET"},
		}},
	}}

	assert.True(t, u.HasAction("VIEW_ASSET"))
	assert.True(t, u.HasAction("CREATE_TRADE"))
	assert.False(t, u.HasAction("DELETE_ASSET"))
	// Action names are exact; no case folding like role names.
	assert.False(t, u.HasAction("view_asset"))
}

func TestNewRoleSummary_EmptyActions(t *testing.T) {
	r := NewRoleSummary(3, "trader")

	assert.Equal(t, 3, r.ID)
	assert.Equal(t, "trader", r.Name)
	assert.NotNil(t, r.Actions)
	assert.Empty(t, r.Actions)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, User{Roles: []Role{NewRoleSummary(0, "ADMIN")}}.IsAdmin())
	assert.False(t, User{Roles: []Role{NewRoleSummary(0, "trader")}}.IsAdmin())
	assert.False(t, User{}.IsAdmin())
}
