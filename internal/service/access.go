package service

import (
	"context"
	"errors"

	domainauth "github.com/quantbridge/tradeops/internal/domain/auth"
	"github.com/quantbridge/tradeops/internal/ports"
)

// AccessServiceOptions groups dependencies for AccessService.
type AccessServiceOptions struct {
	Users  ports.UserRepository
	Access ports.AccessRepository
}

// AccessService manages the role/action catalog and its assignments. All of
// its operations are admin-only at the HTTP layer.
type AccessService struct {
	users  ports.UserRepository
	access ports.AccessRepository
}

// NewAccessService constructs a new AccessService.
func NewAccessService(opts AccessServiceOptions) *AccessService {
	return &AccessService{users: opts.Users, access: opts.Access}
}

// ListUsers returns all users with their roles and actions hydrated.
func (s *AccessService) ListUsers(ctx context.Context) ([]domainauth.User, error) {
	return s.users.List(ctx)
}

// GetUser returns a single user with roles and actions hydrated.
func (s *AccessService) GetUser(ctx context.Context, id int) (domainauth.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListRoles returns the role catalog with each role's granted actions.
func (s *AccessService) ListRoles(ctx context.Context) ([]domainauth.Role, error) {
	return s.access.ListRoles(ctx)
}

// ListActions returns the action catalog.
func (s *AccessService) ListActions(ctx context.Context) ([]domainauth.Action, error) {
	return s.access.ListActions(ctx)
}

// SetRoleActions replaces the set of actions granted by a role.
func (s *AccessService) SetRoleActions(ctx context.Context, roleID int, actionIDs []int) error {
	if roleID <= 0 {
		return errors.New("role id is required")
	}
	return s.access.SetRoleActions(ctx, roleID, actionIDs)
}

// SetUserRoles replaces a user's role assignments.
func (s *AccessService) SetUserRoles(ctx context.Context, userID int, roleIDs []int) error {
	if userID <= 0 {
		return errors.New("user id is required")
	}
	return s.access.SetUserRoles(ctx, userID, roleIDs)
}
