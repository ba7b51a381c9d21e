package domain

import "strings"

// SortMode selects the ordering of a catalog listing.
type SortMode string

// Catalog sort modes.
const (
	SortYearDesc SortMode = "year_desc"
	SortYearAsc  SortMode = "year_asc"
	SortCorps    SortMode = "corps"
	SortTop      SortMode = "top"
	SortBottom   SortMode = "bottom"
)

// DefaultSortMode is used for empty or unknown sort values.
const DefaultSortMode = SortYearDesc

// SortKey names a column a listing can be ordered by.
type SortKey string

// Sort keys understood by the store.
const (
	// KeyUnratedLast orders shows with no ratings after rated ones when ascending.
	KeyUnratedLast SortKey = "unrated_last"
	KeyAvgRating   SortKey = "avg_rating"
	KeyCount       SortKey = "count"
	KeyYear        SortKey = "year"
	KeyCorps       SortKey = "corps"
	KeyTitle       SortKey = "title"
	KeyID          SortKey = "id"
)

// OrderTerm is one (key, direction) step of a tie-break chain.
type OrderTerm struct {
	Key  SortKey
	Desc bool
}

func asc(k SortKey) OrderTerm  { return OrderTerm{Key: k} }
func desc(k SortKey) OrderTerm { return OrderTerm{Key: k, Desc: true} }

//nolint:gochecknoglobals // Static lookup table of tie-break chains
var sortOrders = map[SortMode][]OrderTerm{
	SortYearDesc: {desc(KeyYear), asc(KeyCorps), asc(KeyTitle)},
	SortYearAsc:  {asc(KeyYear), asc(KeyCorps), asc(KeyTitle)},
	SortCorps:    {asc(KeyCorps), desc(KeyYear), asc(KeyTitle)},
	SortTop: {
		asc(KeyUnratedLast), desc(KeyAvgRating), desc(KeyCount),
		desc(KeyYear), asc(KeyCorps), asc(KeyTitle),
	},
	SortBottom: {
		asc(KeyUnratedLast), asc(KeyAvgRating), desc(KeyCount),
		desc(KeyYear), asc(KeyCorps), asc(KeyTitle),
	},
}

// ParseSortMode maps user input to a SortMode, falling back to DefaultSortMode.
func ParseSortMode(s string) SortMode {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortOrders[m]; ok {
		return m
	}
	return DefaultSortMode
}

// Valid reports whether m is one of the known sort modes.
func (m SortMode) Valid() bool {
	_, ok := sortOrders[m]
	return ok
}

// Order returns the tie-break chain for m. Unknown modes get the default chain.
// The returned slice is a copy.
func (m SortMode) Order() []OrderTerm {
	terms, ok := sortOrders[m]
	if !ok {
		terms = sortOrders[DefaultSortMode]
	}
	out := make([]OrderTerm, len(terms))
	copy(out, terms)
	return out
}

// SortModes lists every sort mode in display order.
func SortModes() []SortMode {
	return []SortMode{SortYearDesc, SortYearAsc, SortCorps, SortTop, SortBottom}
}
