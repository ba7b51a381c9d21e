package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/store"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

type roleStore interface {
	store.RoleStore
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// RoleService manages the badge directory and assignments.
type RoleService struct {
	store     roleStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRoleService creates a new role service.
func NewRoleService(store roleStore, validator *validation.Validator, logger *slog.Logger) *RoleService {
	return &RoleService{store: store, validator: validator, logger: componentLogger(logger, "roles")}
}

// RoleRequest is the admin payload for creating or renaming a role.
// An invalid color is dropped rather than rejected.
type RoleRequest struct {
	Name  string `json:"name" validate:"notblank,max=64"`
	Color string `json:"color,omitempty" validate:"max=32"`
}

// List returns every role ordered by name.
func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.store.ListRoles(ctx)
}

// Create adds a role with a unique slug derived from its name.
func (s *RoleService) Create(ctx context.Context, req RoleRequest) (*domain.Role, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	role, err := s.store.CreateRole(ctx, req.Name, req.Color)
	if err != nil {
		return nil, err
	}
	s.logger.Info("role created", "role_id", role.ID, "slug", role.Slug)
	return role, nil
}

// Update renames or recolors a role. The slug never changes.
func (s *RoleService) Update(ctx context.Context, id int64, req RoleRequest) (*domain.Role, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.store.UpdateRole(ctx, id, req.Name, req.Color); err != nil {
		return nil, err
	}
	s.logger.Info("role updated", "role_id", id)
	return s.store.GetRole(ctx, id)
}

// Delete removes a role and all of its assignments.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.logger.Info("role deleted", "role_id", id)
	return nil
}

// Assign gives the named user a role. Assigning a role twice is a no-op.
// It returns the user's roles afterwards.
func (s *RoleService) Assign(ctx context.Context, username string, roleID int64, assignedBy *int64) ([]*domain.Role, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.store.AssignRole(ctx, user.ID, roleID, assignedBy); err != nil {
		return nil, err
	}

	s.logger.Info("role assigned", "role_id", roleID, "user_id", user.ID)
	return s.rolesFor(ctx, user.ID)
}

// Remove takes a role away from the named user.
func (s *RoleService) Remove(ctx context.Context, username string, roleID int64) ([]*domain.Role, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveRole(ctx, user.ID, roleID); err != nil {
		return nil, err
	}

	s.logger.Info("role removed", "role_id", roleID, "user_id", user.ID)
	return s.rolesFor(ctx, user.ID)
}

func (s *RoleService) rolesFor(ctx context.Context, userID int64) ([]*domain.Role, error) {
	roles, err := s.store.RolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles for user %d: %w", userID, err)
	}
	return roles, nil
}
