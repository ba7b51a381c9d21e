package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/normalize"
)

// DefaultReviewLimit is the number of reviews listed for a show when no limit is given.
const DefaultReviewLimit = 30

// primaryRoleSubquery selects one column of the earliest-assigned role of u.id.
const primaryRoleSubquery = `(
			SELECT rl.%s
			FROM user_roles ur
			JOIN roles rl ON rl.id = ur.role_id
			WHERE ur.user_id = u.id
			ORDER BY ur.assigned_ts ASC, rl.id ASC
			LIMIT 1
		)`

// CleanReviewText trims text and enforces the review length bounds.
func CleanReviewText(text string) (string, error) {
	t := normalize.Text(text)
	if t == "" {
		return "", domainerrors.Validation("review cannot be empty")
	}
	if utf8.RuneCountInString(t) > domain.MaxReviewLength {
		return "", domainerrors.Validationf("review is too long (max %d characters)", domain.MaxReviewLength)
	}
	return t, nil
}

// UpsertReview records a user's review of a show, replacing any previous one.
// Votes on an edited review are kept.
func (s *Store) UpsertReview(ctx context.Context, showID, userID int64, text string) error {
	t, err := CleanReviewText(text)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reviews (show_id, user_id, review_text, ts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (show_id, user_id) DO UPDATE SET
			review_text = excluded.review_text,
			ts = excluded.ts`,
		showID, userID, t, s.nowUnix(),
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domainerrors.NotFound("show or user not found").WithCause(err)
		case isCheckViolation(err):
			return domainerrors.Validation("invalid review text").WithCause(err)
		}
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

// DeleteReview removes a user's review of a show together with its votes.
// Deleting a missing review is a no-op.
func (s *Store) DeleteReview(ctx context.Context, showID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reviews WHERE show_id = ? AND user_id = ?`, showID, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// ReviewFor returns the user's review text for a show, or nil if none.
func (s *Store) ReviewFor(ctx context.Context, showID, userID int64) (*string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT review_text FROM reviews WHERE show_id = ? AND user_id = ?`, showID, userID,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &text, nil
}

// ListReviewsForShow returns the newest reviews of a show with author details,
// vote score and the viewer's own vote. viewerID may be nil for anonymous viewers.
func (s *Store) ListReviewsForShow(ctx context.Context, showID int64, viewerID *int64, limit int) ([]*domain.ReviewEntry, error) {
	if limit <= 0 {
		limit = DefaultReviewLimit
	}

	query := fmt.Sprintf(`
		SELECT
			rv.review_text, rv.ts,
			u.id, u.username, u.avatar_url,
			r.rating_half,
			%s AS role_name,
			%s AS role_color,
			COALESCE((
				SELECT SUM(v.vote) FROM review_votes v
				WHERE v.show_id = rv.show_id AND v.review_user_id = rv.user_id
			), 0) AS vote_score,
			(
				SELECT v.vote FROM review_votes v
				WHERE v.show_id = rv.show_id AND v.review_user_id = rv.user_id
					AND v.voter_user_id = ?
			) AS my_vote
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		LEFT JOIN ratings r ON r.show_id = rv.show_id AND r.user_id = rv.user_id
		WHERE rv.show_id = ?
		ORDER BY rv.ts DESC, rv.user_id ASC
		LIMIT ?`,
		fmt.Sprintf(primaryRoleSubquery, "name"),
		fmt.Sprintf(primaryRoleSubquery, "color"),
	)

	rows, err := s.db.QueryContext(ctx, query, nullInt64(viewerID), showID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []*domain.ReviewEntry
	for rows.Next() {
		var (
			e          domain.ReviewEntry
			ts         int64
			avatar     sql.NullString
			ratingHalf sql.NullInt64
			roleName   sql.NullString
			roleColor  sql.NullString
			myVote     sql.NullInt64
		)
		err := rows.Scan(
			&e.Text, &ts,
			&e.UserID, &e.Username, &avatar,
			&ratingHalf,
			&roleName, &roleColor,
			&e.VoteScore, &myVote,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		e.Timestamp = ts
		e.AvatarURL = stringPtr(avatar)
		e.RatingHalf = intPtr(ratingHalf)
		e.RoleName = stringPtr(roleName)
		e.RoleColor = stringPtr(roleColor)
		if myVote.Valid {
			v := domain.VoteState(myVote.Int64)
			e.MyVote = &v
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// RecentReviewsForUser returns the user's most recent reviews, newest first,
// with the author's rating of each show.
func (s *Store) RecentReviewsForUser(ctx context.Context, userID int64, limit int) ([]*domain.UserReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.corps, s.year, s.poster_url, rv.review_text, r.rating_half, rv.ts
		FROM reviews rv
		JOIN shows s ON s.id = rv.show_id
		LEFT JOIN ratings r ON r.show_id = rv.show_id AND r.user_id = rv.user_id
		WHERE rv.user_id = ?
		ORDER BY rv.ts DESC, s.id ASC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	defer rows.Close()

	var out []*domain.UserReview
	for rows.Next() {
		var (
			ur         domain.UserReview
			poster     sql.NullString
			ratingHalf sql.NullInt64
			ts         int64
		)
		if err := rows.Scan(&ur.ShowID, &ur.Title, &ur.Corps, &ur.Year, &poster, &ur.Text, &ratingHalf, &ts); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		ur.PosterURL = stringPtr(poster)
		ur.RatingHalf = intPtr(ratingHalf)
		ur.Timestamp = ts
		out = append(out, &ur)
	}
	return out, rows.Err()
}
