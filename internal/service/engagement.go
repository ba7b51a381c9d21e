package service

import (
	"context"
	"log/slog"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/store"
)

type engagementStore interface {
	store.RatingStore
	store.ReviewStore
	store.VoteStore
}

// EngagementService records ratings, reviews and review votes.
type EngagementService struct {
	store  engagementStore
	logger *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(store engagementStore, logger *slog.Logger) *EngagementService {
	return &EngagementService{store: store, logger: componentLogger(logger, "engagement")}
}

// Rate stores the user's rating for a show in half-star units, clamped to 0..10.
func (s *EngagementService) Rate(ctx context.Context, showID, userID int64, ratingHalf int) error {
	ratingHalf = domain.ClampRatingHalf(ratingHalf)
	if err := s.store.UpsertRating(ctx, showID, userID, ratingHalf); err != nil {
		return err
	}
	s.logger.Info("rating saved", "show_id", showID, "user_id", userID, "rating_half", ratingHalf)
	return nil
}

// Unrate removes the user's rating. Removing a missing rating is not an error.
func (s *EngagementService) Unrate(ctx context.Context, showID, userID int64) error {
	if err := s.store.DeleteRating(ctx, showID, userID); err != nil {
		return err
	}
	s.logger.Info("rating removed", "show_id", showID, "user_id", userID)
	return nil
}

// Review stores the user's review text for a show.
func (s *EngagementService) Review(ctx context.Context, showID, userID int64, text string) error {
	if err := s.store.UpsertReview(ctx, showID, userID, text); err != nil {
		return err
	}
	s.logger.Info("review saved", "show_id", showID, "user_id", userID)
	return nil
}

// DeleteReview removes the user's review along with its votes.
func (s *EngagementService) DeleteReview(ctx context.Context, showID, userID int64) error {
	if err := s.store.DeleteReview(ctx, showID, userID); err != nil {
		return err
	}
	s.logger.Info("review deleted", "show_id", showID, "user_id", userID)
	return nil
}

// VoteResult is the voter's state after a toggle and the review's new score.
type VoteResult struct {
	State domain.VoteState `json:"state"`
	Score int              `json:"vote_score"`
}

// Vote toggles the voter's vote on another user's review.
func (s *EngagementService) Vote(ctx context.Context, showID, reviewUserID, voterID int64, vote int) (*VoteResult, error) {
	if reviewUserID == voterID {
		return nil, domainerrors.Validation("you can't vote on your own review")
	}

	state, err := s.store.SetVote(ctx, showID, reviewUserID, voterID, vote)
	if err != nil {
		return nil, err
	}
	score, err := s.store.VoteScore(ctx, showID, reviewUserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review vote",
		"show_id", showID,
		"review_user_id", reviewUserID,
		"user_id", voterID,
		"state", state.String(),
	)
	return &VoteResult{State: state, Score: score}, nil
}
