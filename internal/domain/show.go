package domain

// Show is a single competitive season production of a drum corps.
type Show struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Corps     string  `json:"corps"`
	Year      int     `json:"year"`
	PosterURL *string `json:"poster_url,omitempty"`
	NormKey   string  `json:"-"`
	CreatedAt int64   `json:"created_ts"`
}

// ShowWithStats is a show joined with its rating aggregate.
// AvgRating is in stars (0.0-5.0); it is 0 when Count is 0.
type ShowWithStats struct {
	Show
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// Rated reports whether the show has at least one rating.
func (s *ShowWithStats) Rated() bool {
	return s.Count > 0
}

// AddShowStatus describes what AddShow did with its input.
type AddShowStatus string

const (
	// AddShowInserted means a new show row was created.
	AddShowInserted AddShowStatus = "inserted"
	// AddShowDuplicate means a show with the same norm key already existed.
	AddShowDuplicate AddShowStatus = "duplicate"
	// AddShowDuplicatePosterUpdated means the existing show had no poster and received the supplied one.
	AddShowDuplicatePosterUpdated AddShowStatus = "duplicate_poster_updated"
)

// AddShowResult is returned from AddShow.
type AddShowResult struct {
	Created bool
	ShowID  int64
	Status  AddShowStatus
}

// ShowInput carries the editable fields of a show.
type ShowInput struct {
	Year      int
	Corps     string
	Title     string
	PosterURL string
}

// ShowFilter narrows a catalog listing. Zero values mean no filter.
type ShowFilter struct {
	Year  *int
	Corps string
}
