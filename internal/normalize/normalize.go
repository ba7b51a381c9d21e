// Package normalize provides utilities for normalizing and sanitizing catalog data.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches anything a norm key component may not contain.
	keyDisallowed = regexp.MustCompile(`[^a-z0-9 \-]`)
	// Matches runs of non-alphanumeric characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches a #RRGGBB color.
	hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// DefaultRoleSlug is used when a role name has no slug-able characters.
const DefaultRoleSlug = "role"

// KeyPart normalizes one component of a show's uniqueness key.
// "  Blue   Devils! " -> "blue devils".
// The result never contains '|'.
func KeyPart(s string) string {
	// Fields splits on any Unicode space, so NBSP and friends collapse too.
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	s = keyDisallowed.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NormKey builds the uniqueness fingerprint of a show.
// (2017, "Blue Devils", "Metamorph") -> "2017|blue devils|metamorph".
func NormKey(year int, corps, title string) string {
	return fmt.Sprintf("%d|%s|%s", year, KeyPart(corps), KeyPart(title))
}

// Slug converts a role name to a URL-safe slug.
// "Veterans!!" -> "veterans".
// "Drum Major" -> "drum-major".
// "Élite" -> "elite".
func Slug(name string) string {
	// Decompose accented characters so the base letter survives.
	s := norm.NFKD.String(name)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return DefaultRoleSlug
	}
	return s
}

// SlugCandidate returns the n-th candidate for a base slug: the base itself for n <= 1,
// then "base-2", "base-3", ...
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// HexColor returns the trimmed color if it is a #RRGGBB value, else "".
func HexColor(s string) string {
	s = strings.TrimSpace(s)
	if hexColor.MatchString(s) {
		return s
	}
	return ""
}

// IsHexColor reports whether s is exactly a #RRGGBB value.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Optional trims s and returns nil when nothing remains.
func Optional(s string) *string {
	s = sanitizeString(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

// Text trims s and strips null bytes.
func Text(s string) string {
	return strings.TrimSpace(sanitizeString(s))
}

// sanitizeString removes null bytes, which SQLite text columns and JSON
// encoders handle inconsistently.
func sanitizeString(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
