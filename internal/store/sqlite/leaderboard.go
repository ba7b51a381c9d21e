package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corpsboard/corpsboard-server/internal/domain"
)

// leaderboardSortExprs whitelists the SQL expression behind each leaderboard sort key.
//
//nolint:gochecknoglobals // Static lookup table
var leaderboardSortExprs = map[domain.SortKey]string{
	domain.KeyAvgRating: "st.avg_rating",
	domain.KeyCount:     "st.rating_count",
	domain.KeyYear:      "st.year",
	domain.KeyCorps:     "st.corps COLLATE NOCASE",
	domain.KeyTitle:     "st.title COLLATE NOCASE",
	domain.KeyID:        "st.id",
}

// leaderboardQuery ranks rated shows and attaches each show's best review.
// The best review has the highest vote score, then is the newest, then has the lowest author id.
const leaderboardQuery = `
	WITH rated AS (
		SELECT s.id, s.title, s.corps, s.year, s.poster_url, s.norm_key, s.created_ts,
			ROUND(AVG(r.rating_half) / 2.0, 2) AS avg_rating,
			COUNT(r.rating_half) AS rating_count
		FROM shows s
		JOIN ratings r ON r.show_id = s.id
		GROUP BY s.id
	),
	scored AS (
		SELECT rv.show_id, rv.user_id, rv.review_text, rv.ts,
			COALESCE((
				SELECT SUM(v.vote) FROM review_votes v
				WHERE v.show_id = rv.show_id AND v.review_user_id = rv.user_id
			), 0) AS vote_score
		FROM reviews rv
		WHERE rv.show_id IN (SELECT id FROM rated)
	),
	ranked AS (
		SELECT sc.show_id, sc.user_id, sc.review_text, sc.ts, sc.vote_score,
			ROW_NUMBER() OVER (
				PARTITION BY sc.show_id
				ORDER BY sc.vote_score DESC, sc.ts DESC, sc.user_id ASC
			) AS rn
		FROM scored sc
	)
	SELECT
		st.id, st.title, st.corps, st.year, st.poster_url, st.norm_key, st.created_ts,
		st.avg_rating, st.rating_count,
		b.user_id, u.username, u.avatar_url, b.review_text, b.vote_score, b.ts, br.rating_half
	FROM rated st
	LEFT JOIN ranked b ON b.show_id = st.id AND b.rn = 1
	LEFT JOIN users u ON u.id = b.user_id
	LEFT JOIN ratings br ON br.show_id = b.show_id AND br.user_id = b.user_id
	%s
	LIMIT ?`

// TopShows returns up to limit rated shows ranked by mode, each with its best review.
// Shows without ratings never appear. A non-positive limit uses the default page size.
func (s *Store) TopShows(ctx context.Context, limit int, mode domain.LeaderboardMode) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultLeaderboardLimit
	}
	if mode != domain.LeaderboardBottom {
		mode = domain.LeaderboardTop
	}

	orderSQL, err := orderByClause(mode.Order(), leaderboardSortExprs)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(leaderboardQuery, orderSQL), limit)
	if err != nil {
		return nil, fmt.Errorf("top shows: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		var (
			e          domain.LeaderboardEntry
			poster     sql.NullString
			createdTS  int64
			authorID   sql.NullInt64
			username   sql.NullString
			avatar     sql.NullString
			text       sql.NullString
			score      sql.NullInt64
			reviewTS   sql.NullInt64
			ratingHalf sql.NullInt64
		)
		err := rows.Scan(
			&e.ID, &e.Title, &e.Corps, &e.Year, &poster, &e.NormKey, &createdTS,
			&e.AvgRating, &e.Count,
			&authorID, &username, &avatar, &text, &score, &reviewTS, &ratingHalf,
		)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.PosterURL = stringPtr(poster)
		e.CreatedAt = createdTS

		if authorID.Valid {
			e.BestReview = &domain.TopReview{
				UserID:     authorID.Int64,
				Username:   username.String,
				AvatarURL:  stringPtr(avatar),
				Text:       text.String,
				Score:      int(score.Int64),
				Timestamp:  reviewTS.Int64,
				RatingHalf: intPtr(ratingHalf),
			}
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
