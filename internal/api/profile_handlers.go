package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}",
		Summary:     "Get profile",
		Description: "Returns a user's public profile with roles, recent ratings and recent reviews",
		Tags:        []string{"Profiles"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/profile",
		Summary:     "Get my profile",
		Description: "Returns the caller's own profile",
		Tags:        []string{"Profiles"},
		Security:    bearer,
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me/profile",
		Summary:     "Update my profile",
		Description: "Sets avatar, banner and theme color. Empty values clear them.",
		Tags:        []string{"Profiles"},
		Security:    bearer,
	}, s.handleUpdateMyProfile)
}

// UsernameInput identifies a user by name.
type UsernameInput struct {
	Username string `path:"username" doc:"Username"`
}

// UpdateProfileInput carries the style fields.
type UpdateProfileInput struct {
	Body struct {
		AvatarURL  string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
		BannerURL  string `json:"banner_url,omitempty" doc:"Banner image URL"`
		ThemeColor string `json:"theme_color,omitempty" doc:"Theme color as #RRGGBB"`
	}
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body *domain.Profile
}

func (s *Server) handleGetProfile(ctx context.Context, input *UsernameInput) (*ProfileOutput, error) {
	profile, err := s.services.Profiles.ByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: emptyProfileLists(profile)}, nil
}

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.services.Profiles.ByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: emptyProfileLists(profile)}, nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.services.Profiles.UpdateStyle(ctx, user.ID, service.StyleRequest{
		AvatarURL:  input.Body.AvatarURL,
		BannerURL:  input.Body.BannerURL,
		ThemeColor: input.Body.ThemeColor,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: emptyProfileLists(profile)}, nil
}

// emptyProfileLists makes nil slices encode as [] instead of null.
func emptyProfileLists(p *domain.Profile) *domain.Profile {
	if p.Roles == nil {
		p.Roles = []*domain.Role{}
	}
	if p.RecentRatings == nil {
		p.RecentRatings = []*domain.UserRating{}
	}
	if p.RecentReviews == nil {
		p.RecentReviews = []*domain.UserReview{}
	}
	return p
}
