package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/mocks"
)

func newAccessService(t *testing.T) (*mocks.MockUserRepository, *mocks.MockAccessRepository, *AccessService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	access := mocks.NewMockAccessRepository(ctrl)
	svc := NewAccessService(AccessServiceOptions{Users: users, Access: access})
	return users, access, svc
}

func TestAccessService_ListUsers(t *testing.T) {
	t.Parallel()
	users, _, svc := newAccessService(t)
	ctx := context.Background()

	expected := []domainauth.User{
		{ID: 1, Email: "admin@example.com", Roles: []domainauth.Role{{ID: 1, Name: "admin"}}},
		{ID: 2, Email: "trader@example.com"},
	}
	users.EXPECT().List(ctx).Return(expected, nil)

	got, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestAccessService_Catalog(t *testing.T) {
	t.Parallel()
	_, access, svc := newAccessService(t)
	ctx := context.Background()

	access.EXPECT().ListRoles(ctx).Return([]domainauth.Role{{ID: 1, Name: "admin"}}, nil)
	access.EXPECT().ListActions(ctx).Return([]domainauth.Action{{ID: 1, Name: "VIEW_ASSET"}}, nil)

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	actions, err := svc.ListActions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "VIEW_ASSET", actions[0].Name)
}

func TestAccessService_SetRoleActions(t *testing.T) {
	t.Parallel()
	_, access, svc := newAccessService(t)
	ctx := context.Background()

	access.EXPECT().SetRoleActions(ctx, 2, []int{1, 3}).Return(nil)
	assert.NoError(t, svc.SetRoleActions(ctx, 2, []int{1, 3}))

	assert.ErrorContains(t, svc.SetRoleActions(ctx, 0, []int{1}), "role id")
}

func TestAccessService_SetUserRoles(t *testing.T) {
	t.Parallel()
	_, access, svc := newAccessService(t)
	ctx := context.Background()

	access.EXPECT().SetUserRoles(ctx, 5, []int{2}).Return(nil)
	assert.NoError(t, svc.SetUserRoles(ctx, 5, []int{2}))

	assert.ErrorContains(t, svc.SetUserRoles(ctx, -1, nil), "user id")
}
