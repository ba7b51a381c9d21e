package domain

import "strings"

// LeaderboardMode selects best-first or worst-first ranking.
type LeaderboardMode string

// Leaderboard modes.
const (
	LeaderboardTop    LeaderboardMode = "top"
	LeaderboardBottom LeaderboardMode = "bottom"
)

// DefaultLeaderboardLimit is the page size used when no limit is given.
const DefaultLeaderboardLimit = 200

// ParseLeaderboardMode maps user input to a mode, falling back to LeaderboardTop.
func ParseLeaderboardMode(s string) LeaderboardMode {
	if LeaderboardMode(strings.ToLower(strings.TrimSpace(s))) == LeaderboardBottom {
		return LeaderboardBottom
	}
	return LeaderboardTop
}

// Order returns the tie-break chain for the mode.
func (m LeaderboardMode) Order() []OrderTerm {
	avg := desc(KeyAvgRating)
	if m == LeaderboardBottom {
		avg = asc(KeyAvgRating)
	}
	return []OrderTerm{avg, desc(KeyCount), desc(KeyYear), asc(KeyID)}
}

// TopReview is the highest-voted review of a show.
type TopReview struct {
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	Text       string  `json:"review_text"`
	Score      int     `json:"vote_score"`
	Timestamp  int64   `json:"ts"`
	RatingHalf *int    `json:"rating_half,omitempty"`
}

// LeaderboardEntry is a rated show with its best review, if any.
type LeaderboardEntry struct {
	ShowWithStats
	BestReview *TopReview `json:"best_review,omitempty"`
}
