package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
)

// UpsertRating records a user's rating of a show, replacing any previous one.
// Out-of-range values are clamped to the half-star bounds.
func (s *Store) UpsertRating(ctx context.Context, showID, userID int64, ratingHalf int) error {
	rh := domain.ClampRatingHalf(ratingHalf)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (show_id, user_id, rating_half, ts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (show_id, user_id) DO UPDATE SET
			rating_half = excluded.rating_half,
			ts = excluded.ts`,
		showID, userID, rh, s.nowUnix(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainerrors.NotFound("show or user not found").WithCause(err)
		}
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// DeleteRating removes a user's rating of a show. Deleting a missing rating is a no-op.
func (s *Store) DeleteRating(ctx context.Context, showID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM ratings WHERE show_id = ? AND user_id = ?`, showID, userID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}

// RatingFor returns the user's rating of a show in half-star units, or nil if none.
func (s *Store) RatingFor(ctx context.Context, showID, userID int64) (*int, error) {
	var rh int
	err := s.db.QueryRowContext(ctx,
		`SELECT rating_half FROM ratings WHERE show_id = ? AND user_id = ?`, showID, userID,
	).Scan(&rh)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rh, nil
}

// RecentRatingsForUser returns the user's most recent ratings, newest first.
func (s *Store) RecentRatingsForUser(ctx context.Context, userID int64, limit int) ([]*domain.UserRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.corps, s.year, s.poster_url, r.rating_half, r.ts
		FROM ratings r
		JOIN shows s ON s.id = r.show_id
		WHERE r.user_id = ?
		ORDER BY r.ts DESC, s.id ASC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent ratings: %w", err)
	}
	defer rows.Close()

	var out []*domain.UserRating
	for rows.Next() {
		var (
			ur     domain.UserRating
			poster sql.NullString
			ts     int64
		)
		if err := rows.Scan(&ur.ShowID, &ur.Title, &ur.Corps, &ur.Year, &poster, &ur.RatingHalf, &ts); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ur.PosterURL = stringPtr(poster)
		ur.Timestamp = ts
		out = append(out, &ur)
	}
	return out, rows.Err()
}
