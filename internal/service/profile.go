package service

import (
	"context"
	"log/slog"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/store"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

// Profile page sizes.
const (
	ProfileRecentRatings = 30
	ProfileRecentReviews = 20
)

type profileStore interface {
	store.UserStore
	store.RatingStore
	store.ReviewStore
	store.RoleStore
}

// ProfileService builds public profiles and edits profile styling.
type ProfileService struct {
	store     profileStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store profileStore, validator *validation.Validator, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, validator: validator, logger: componentLogger(logger, "profile")}
}

// StyleRequest edits the presentation of the caller's profile.
// Empty fields clear the stored value.
type StyleRequest struct {
	AvatarURL  string `json:"avatar_url" validate:"max=2048"`
	BannerURL  string `json:"banner_url" validate:"max=2048"`
	ThemeColor string `json:"theme_color" validate:"rrggbb"`
}

// ByUsername returns the public profile of username.
func (s *ProfileService) ByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, user)
}

// ByID returns the profile of the user with id.
func (s *ProfileService) ByID(ctx context.Context, id int64) (*domain.Profile, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, user)
}

// UpdateStyle saves avatar, banner and theme color and returns the updated profile.
func (s *ProfileService) UpdateStyle(ctx context.Context, userID int64, req StyleRequest) (*domain.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	err := s.store.UpdateProfileStyle(ctx, userID, domain.ProfileStyle{
		AvatarURL:  req.AvatarURL,
		BannerURL:  req.BannerURL,
		ThemeColor: req.ThemeColor,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile style updated", "user_id", userID)
	return s.ByID(ctx, userID)
}

func (s *ProfileService) build(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	p := &domain.Profile{User: user}

	var err error
	if p.Roles, err = s.store.RolesForUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if len(p.Roles) > 0 {
		p.PrimaryRole = p.Roles[0]
	}
	if p.RecentRatings, err = s.store.RecentRatingsForUser(ctx, user.ID, ProfileRecentRatings); err != nil {
		return nil, err
	}
	if p.RecentReviews, err = s.store.RecentReviewsForUser(ctx, user.ID, ProfileRecentReviews); err != nil {
		return nil, err
	}
	return p, nil
}
