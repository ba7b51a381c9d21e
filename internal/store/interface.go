// Package store defines the persistence interface for the CorpsBoard server.
package store

import (
	"context"

	"github.com/corpsboard/corpsboard-server/internal/domain"
)

// ShowStore is the show catalog.
type ShowStore interface {
	AddShow(ctx context.Context, in domain.ShowInput) (*domain.AddShowResult, error)
	UpdateShow(ctx context.Context, id int64, in domain.ShowInput) error
	GetShow(ctx context.Context, id int64) (*domain.Show, error)
	ListShows(ctx context.Context, mode domain.SortMode, filter domain.ShowFilter) ([]*domain.ShowWithStats, error)
	// ShowDetail returns nil, nil when the show does not exist.
	ShowDetail(ctx context.Context, id int64) (*domain.ShowWithStats, error)
}

// RatingStore is the rating ledger.
type RatingStore interface {
	UpsertRating(ctx context.Context, showID, userID int64, ratingHalf int) error
	DeleteRating(ctx context.Context, showID, userID int64) error
	RatingFor(ctx context.Context, showID, userID int64) (*int, error)
	RecentRatingsForUser(ctx context.Context, userID int64, limit int) ([]*domain.UserRating, error)
}

// ReviewStore is the review ledger.
type ReviewStore interface {
	UpsertReview(ctx context.Context, showID, userID int64, text string) error
	DeleteReview(ctx context.Context, showID, userID int64) error
	ReviewFor(ctx context.Context, showID, userID int64) (*string, error)
	ListReviewsForShow(ctx context.Context, showID int64, viewerID *int64, limit int) ([]*domain.ReviewEntry, error)
	RecentReviewsForUser(ctx context.Context, userID int64, limit int) ([]*domain.UserReview, error)
}

// VoteStore is the review vote ledger.
type VoteStore interface {
	SetVote(ctx context.Context, showID, reviewUserID, voterUserID int64, vote int) (domain.VoteState, error)
	VoteFor(ctx context.Context, showID, reviewUserID, voterUserID int64) (domain.VoteState, error)
	VoteScore(ctx context.Context, showID, reviewUserID int64) (int, error)
}

// RoleStore is the role directory.
type RoleStore interface {
	CreateRole(ctx context.Context, name, color string) (*domain.Role, error)
	UpdateRole(ctx context.Context, id int64, name, color string) error
	DeleteRole(ctx context.Context, id int64) error
	GetRole(ctx context.Context, id int64) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error
	RemoveRole(ctx context.Context, userID, roleID int64) error
	RolesForUser(ctx context.Context, userID int64) ([]*domain.Role, error)
	PrimaryRoleForUser(ctx context.Context, userID int64) (*domain.Role, error)
}

// UserStore holds accounts and profile styling.
type UserStore interface {
	CreateUser(ctx context.Context, username, passHash string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfileStyle(ctx context.Context, userID int64, style domain.ProfileStyle) error
}

// LeaderboardStore ranks rated shows.
type LeaderboardStore interface {
	TopShows(ctx context.Context, limit int, mode domain.LeaderboardMode) ([]*domain.LeaderboardEntry, error)
}

// Store defines the interface for all persistence operations.
type Store interface {
	ShowStore
	RatingStore
	ReviewStore
	VoteStore
	RoleStore
	UserStore
	LeaderboardStore

	Ping(ctx context.Context) error
	Close() error
}
