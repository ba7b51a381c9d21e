package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/service"
)

func (s *Server) registerEngagementRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "rateShow",
		Method:      http.MethodPut,
		Path:        "/api/v1/shows/{id}/rating",
		Summary:     "Rate show",
		Description: "Sets the caller's rating in half stars. Values outside 0-10 are clamped.",
		Tags:        []string{"Engagement"},
		Security:    bearer,
	}, s.handleRateShow)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unrateShow",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shows/{id}/rating",
		Summary:       "Remove rating",
		Description:   "Removes the caller's rating. Succeeds when there is none.",
		Tags:          []string{"Engagement"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
	}, s.handleUnrateShow)

	huma.Register(s.api, huma.Operation{
		OperationID: "reviewShow",
		Method:      http.MethodPut,
		Path:        "/api/v1/shows/{id}/review",
		Summary:     "Review show",
		Description: "Creates or replaces the caller's review. Replacing keeps existing votes.",
		Tags:        []string{"Engagement"},
		Security:    bearer,
	}, s.handleReviewShow)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteReview",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shows/{id}/review",
		Summary:       "Delete review",
		Description:   "Deletes the caller's review together with its votes",
		Tags:          []string{"Engagement"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
	}, s.handleDeleteReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "voteReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/shows/{id}/reviews/{userId}/vote",
		Summary:     "Vote on review",
		Description: "Up or down votes another user's review. Repeating the same vote clears it.",
		Tags:        []string{"Engagement"},
		Security:    bearer,
	}, s.handleVoteReview)
}

// RatingRequest is the body for rating a show.
type RatingRequest struct {
	RatingHalf int `json:"rating_half" doc:"Rating in half stars (0-10)"`
}

// RateShowInput contains the show and the rating.
type RateShowInput struct {
	ID   int64 `path:"id" doc:"Show ID"`
	Body RatingRequest
}

// RatingResponse echoes the stored rating.
type RatingResponse struct {
	ShowID     int64 `json:"show_id" doc:"Show ID"`
	RatingHalf int   `json:"rating_half" doc:"Stored rating in half stars"`
}

// RatingOutput wraps the rating for Huma.
type RatingOutput struct {
	Body RatingResponse
}

// ReviewRequest is the body for reviewing a show.
type ReviewRequest struct {
	Text string `json:"review_text" doc:"Review text (1-5000 characters after trimming)"`
}

// ReviewShowInput contains the show and the review.
type ReviewShowInput struct {
	ID   int64 `path:"id" doc:"Show ID"`
	Body ReviewRequest
}

// ReviewOutput wraps the stored review for Huma.
type ReviewOutput struct {
	Body struct {
		ShowID int64  `json:"show_id" doc:"Show ID"`
		Text   string `json:"review_text" doc:"Stored review text"`
	}
}

// VoteRequest is the body for voting on a review.
type VoteRequest struct {
	Vote int `json:"vote" enum:"1,-1" doc:"1 for up, -1 for down"`
}

// VoteInput identifies a review by show and author.
type VoteInput struct {
	ID     int64 `path:"id" doc:"Show ID"`
	UserID int64 `path:"userId" doc:"Review author's user ID"`
	Body   VoteRequest
}

// VoteOutput wraps the vote result for Huma.
type VoteOutput struct {
	Body *service.VoteResult
}

func (s *Server) handleRateShow(ctx context.Context, input *RateShowInput) (*RatingOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Engagement.Rate(ctx, input.ID, user.ID, input.Body.RatingHalf); err != nil {
		return nil, err
	}
	return &RatingOutput{Body: RatingResponse{
		ShowID:     input.ID,
		RatingHalf: domain.ClampRatingHalf(input.Body.RatingHalf),
	}}, nil
}

func (s *Server) handleUnrateShow(ctx context.Context, input *ShowIDInput) (*struct{}, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Engagement.Unrate(ctx, input.ID, user.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleReviewShow(ctx context.Context, input *ReviewShowInput) (*ReviewOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Engagement.Review(ctx, input.ID, user.ID, input.Body.Text); err != nil {
		return nil, err
	}
	out := &ReviewOutput{}
	out.Body.ShowID = input.ID
	out.Body.Text = strings.TrimSpace(input.Body.Text)
	return out, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *ShowIDInput) (*struct{}, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Engagement.DeleteReview(ctx, input.ID, user.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleVoteReview(ctx context.Context, input *VoteInput) (*VoteOutput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.services.Engagement.Vote(ctx, input.ID, input.UserID, user.ID, input.Body.Vote)
	if err != nil {
		return nil, err
	}
	return &VoteOutput{Body: result}, nil
}
