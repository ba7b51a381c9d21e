package service

import (
	"context"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/store"
)

// LeaderboardService ranks rated shows.
type LeaderboardService struct {
	store store.LeaderboardStore
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(store store.LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// Top returns up to limit rated shows for mode ("top" or "bottom"; anything else means top),
// each with its best review. A non-positive limit uses the default page size.
func (s *LeaderboardService) Top(ctx context.Context, mode string, limit int) (domain.LeaderboardMode, []*domain.LeaderboardEntry, error) {
	m := domain.ParseLeaderboardMode(mode)
	if limit <= 0 || limit > domain.DefaultLeaderboardLimit {
		limit = domain.DefaultLeaderboardLimit
	}
	entries, err := s.store.TopShows(ctx, limit, m)
	if err != nil {
		return m, nil, err
	}
	return m, entries, nil
}
