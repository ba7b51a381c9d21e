package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corpsboard/corpsboard-server/internal/domain"
)

func (s *Server) registerLeaderboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/leaderboard",
		Summary:     "Leaderboard",
		Description: "Ranks rated shows by average rating, each with its most upvoted review",
		Tags:        []string{"Leaderboard"},
	}, s.handleGetLeaderboard)
}

// LeaderboardInput selects the ranking direction and size.
type LeaderboardInput struct {
	Mode  string `query:"mode" doc:"top (default) or bottom"`
	Limit int    `query:"limit" minimum:"0" doc:"Maximum entries (default and cap 200)"`
}

// LeaderboardOutput wraps the ranking for Huma.
type LeaderboardOutput struct {
	Body struct {
		Mode    domain.LeaderboardMode     `json:"mode" doc:"Applied ranking direction"`
		Entries []*domain.LeaderboardEntry `json:"entries" doc:"Ranked shows"`
	}
}

func (s *Server) handleGetLeaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error) {
	mode, entries, err := s.services.Leaderboard.Top(ctx, input.Mode, input.Limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.LeaderboardEntry{}
	}

	out := &LeaderboardOutput{}
	out.Body.Mode = mode
	out.Body.Entries = entries
	return out, nil
}
