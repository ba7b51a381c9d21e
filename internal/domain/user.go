package domain

// User represents a registered account.
type User struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	PassHash   string  `json:"-"`
	IsAdmin    bool    `json:"is_admin"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	BannerURL  *string `json:"banner_url,omitempty"`
	ThemeColor *string `json:"theme_color,omitempty"`
	CreatedAt  int64   `json:"created_ts"`
}

// ProfileStyle holds the user-editable presentation fields of a profile.
// Empty strings clear the corresponding column.
type ProfileStyle struct {
	AvatarURL  string
	BannerURL  string
	ThemeColor string
}

// Profile is the public view of a user with their recent activity.
type Profile struct {
	User          *User         `json:"user"`
	Roles         []*Role       `json:"roles"`
	PrimaryRole   *Role         `json:"primary_role,omitempty"`
	RecentRatings []*UserRating `json:"recent_ratings"`
	RecentReviews []*UserReview `json:"recent_reviews"`
}
