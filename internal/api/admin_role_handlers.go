package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/service"
)

func (s *Server) registerAdminRoleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListRoles",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/roles",
		Summary:     "List roles",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminListRoles)

	huma.Register(s.api, huma.Operation{
		OperationID:   "adminCreateRole",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/roles",
		Summary:       "Create role",
		Description:   "Creates a role. The slug is derived from the name and made unique with a numeric suffix.",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
	}, s.handleAdminCreateRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminUpdateRole",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/roles/{id}",
		Summary:     "Update role",
		Description: "Renames or recolors a role. The slug is kept.",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminUpdateRole)

	huma.Register(s.api, huma.Operation{
		OperationID:   "adminDeleteRole",
		Method:        http.MethodDelete,
		Path:          "/api/v1/admin/roles/{id}",
		Summary:       "Delete role",
		Description:   "Deletes a role and all of its assignments",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
	}, s.handleAdminDeleteRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminAssignRole",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/users/{username}/roles/{roleId}",
		Summary:     "Assign role",
		Description: "Gives a user a role. Assigning twice keeps the original assignment.",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminAssignRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminRemoveRole",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/users/{username}/roles/{roleId}",
		Summary:     "Remove role",
		Tags:        []string{"Admin"},
		Security:    bearer,
	}, s.handleAdminRemoveRole)
}

// RoleBody is the editable part of a role.
type RoleBody struct {
	Name  string `json:"name" doc:"Display name"`
	Color string `json:"color,omitempty" doc:"Badge color as #RRGGBB; invalid values are dropped"`
}

// CreateRoleInput carries a new role.
type CreateRoleInput struct {
	Body RoleBody
}

// RoleIDInput identifies a role.
type RoleIDInput struct {
	ID int64 `path:"id" doc:"Role ID"`
}

// UpdateRoleInput carries an edited role.
type UpdateRoleInput struct {
	ID   int64 `path:"id" doc:"Role ID"`
	Body RoleBody
}

// UserRoleInput identifies a user and a role.
type UserRoleInput struct {
	Username string `path:"username" doc:"Username"`
	RoleID   int64  `path:"roleId" doc:"Role ID"`
}

// RoleOutput wraps a role for Huma.
type RoleOutput struct {
	Body *domain.Role
}

// RolesOutput wraps a role list for Huma.
type RolesOutput struct {
	Body struct {
		Roles []*domain.Role `json:"roles" doc:"Roles"`
	}
}

func rolesOutput(roles []*domain.Role) *RolesOutput {
	if roles == nil {
		roles = []*domain.Role{}
	}
	out := &RolesOutput{}
	out.Body.Roles = roles
	return out
}

func (s *Server) handleAdminListRoles(ctx context.Context, _ *struct{}) (*RolesOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	roles, err := s.services.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	return rolesOutput(roles), nil
}

func (s *Server) handleAdminCreateRole(ctx context.Context, input *CreateRoleInput) (*RoleOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	role, err := s.services.Roles.Create(ctx, service.RoleRequest{Name: input.Body.Name, Color: input.Body.Color})
	if err != nil {
		return nil, err
	}
	return &RoleOutput{Body: role}, nil
}

func (s *Server) handleAdminUpdateRole(ctx context.Context, input *UpdateRoleInput) (*RoleOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	role, err := s.services.Roles.Update(ctx, input.ID, service.RoleRequest{Name: input.Body.Name, Color: input.Body.Color})
	if err != nil {
		return nil, err
	}
	return &RoleOutput{Body: role}, nil
}

func (s *Server) handleAdminDeleteRole(ctx context.Context, input *RoleIDInput) (*struct{}, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := s.services.Roles.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleAdminAssignRole(ctx context.Context, input *UserRoleInput) (*RolesOutput, error) {
	admin, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.services.Roles.Assign(ctx, input.Username, input.RoleID, &admin.ID)
	if err != nil {
		return nil, err
	}
	return rolesOutput(roles), nil
}

func (s *Server) handleAdminRemoveRole(ctx context.Context, input *UserRoleInput) (*RolesOutput, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	roles, err := s.services.Roles.Remove(ctx, input.Username, input.RoleID)
	if err != nil {
		return nil, err
	}
	return rolesOutput(roles), nil
}
