package domain

// Rating bounds in half-star units.
const (
	MinRatingHalf = 0
	MaxRatingHalf = 10
)

// MaxReviewLength is the maximum review length in characters.
const MaxReviewLength = 5000

// ClampRatingHalf forces a half-star rating into [MinRatingHalf, MaxRatingHalf].
func ClampRatingHalf(v int) int {
	return max(MinRatingHalf, min(MaxRatingHalf, v))
}

// Stars converts half-star units to a star value.
func Stars(ratingHalf int) float64 {
	return float64(ratingHalf) / 2.0
}

// ReviewEntry is a review as displayed on a show page.
type ReviewEntry struct {
	Text       string  `json:"review_text"`
	Timestamp  int64   `json:"ts"`
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	RatingHalf *int    `json:"rating_half,omitempty"`
	RoleName   *string `json:"role_name,omitempty"`
	RoleColor  *string `json:"role_color,omitempty"`
	VoteScore  int     `json:"vote_score"`
	// MyVote is nil when the viewer has not voted (or there is no viewer).
	MyVote *VoteState `json:"my_vote,omitempty"`
}

// UserRating is one of a user's ratings joined with the rated show.
type UserRating struct {
	ShowID     int64   `json:"show_id"`
	Title      string  `json:"title"`
	Corps      string  `json:"corps"`
	Year       int     `json:"year"`
	PosterURL  *string `json:"poster_url,omitempty"`
	RatingHalf int     `json:"rating_half"`
	Timestamp  int64   `json:"ts"`
}

// UserReview is one of a user's reviews joined with the reviewed show.
type UserReview struct {
	ShowID     int64   `json:"show_id"`
	Title      string  `json:"title"`
	Corps      string  `json:"corps"`
	Year       int     `json:"year"`
	PosterURL  *string `json:"poster_url,omitempty"`
	Text       string  `json:"review_text"`
	RatingHalf *int    `json:"rating_half,omitempty"`
	Timestamp  int64   `json:"ts"`
}
