package domain

// Role is a named badge that admins assign to users.
type Role struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Color     *string `json:"color,omitempty"`
	CreatedAt int64   `json:"created_ts"`
}
