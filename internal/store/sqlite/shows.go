package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/normalize"
)

// showColumns is the ordered list of columns selected in show queries.
// Must match the scan order in scanShow.
const showColumns = `id, title, corps, year, poster_url, norm_key, created_ts`

// showStatsCTE joins every show with its rating aggregate.
// avg_rating is in stars and 0 for unrated shows.
const showStatsCTE = `
	WITH show_stats AS (
		SELECT s.id, s.title, s.corps, s.year, s.poster_url, s.norm_key, s.created_ts,
			COALESCE(AVG(r.rating_half), 0.0) / 2.0 AS avg_rating,
			COUNT(r.rating_half) AS rating_count
		FROM shows s
		LEFT JOIN ratings r ON r.show_id = s.id
		GROUP BY s.id
	)`

// showStatsColumns selects from show_stats in scanShowWithStats order.
const showStatsColumns = showColumns + `, avg_rating, rating_count`

// catalogSortExprs whitelists the SQL expression behind each sort key.
// Only these strings are ever interpolated into ORDER BY.
//
//nolint:gochecknoglobals // Static lookup table
var catalogSortExprs = map[domain.SortKey]string{
	domain.KeyUnratedLast: "(rating_count = 0)",
	domain.KeyAvgRating:   "avg_rating",
	domain.KeyCount:       "rating_count",
	domain.KeyYear:        "year",
	domain.KeyCorps:       "corps COLLATE NOCASE",
	domain.KeyTitle:       "title COLLATE NOCASE",
	domain.KeyID:          "id",
}

// orderByClause renders terms through exprs. A final id ASC is appended
// unless the chain already ends on id, so every ordering is total.
func orderByClause(terms []domain.OrderTerm, exprs map[domain.SortKey]string) (string, error) {
	parts := make([]string, 0, len(terms)+1)
	hasID := false
	for _, t := range terms {
		expr, ok := exprs[t.Key]
		if !ok {
			return "", fmt.Errorf("unknown sort key %q", t.Key)
		}
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, expr+" "+dir)
		hasID = t.Key == domain.KeyID
	}
	if !hasID {
		parts = append(parts, exprs[domain.KeyID]+" ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// scanShow scans a show row into a domain.Show.
func scanShow(scanner interface{ Scan(dest ...any) error }) (*domain.Show, error) {
	var (
		sh        domain.Show
		posterURL sql.NullString
		createdTS int64
	)
	if err := scanner.Scan(&sh.ID, &sh.Title, &sh.Corps, &sh.Year, &posterURL, &sh.NormKey, &createdTS); err != nil {
		return nil, err
	}
	sh.PosterURL = stringPtr(posterURL)
	sh.CreatedAt = createdTS
	return &sh, nil
}

// scanShowWithStats scans a show_stats row.
func scanShowWithStats(scanner interface{ Scan(dest ...any) error }) (*domain.ShowWithStats, error) {
	var (
		sw        domain.ShowWithStats
		posterURL sql.NullString
		createdTS int64
	)
	err := scanner.Scan(
		&sw.ID, &sw.Title, &sw.Corps, &sw.Year, &posterURL, &sw.NormKey, &createdTS,
		&sw.AvgRating, &sw.Count,
	)
	if err != nil {
		return nil, err
	}
	sw.PosterURL = stringPtr(posterURL)
	sw.CreatedAt = createdTS
	return &sw, nil
}

// cleanShowInput trims the editable fields and rejects blank corps or title.
func cleanShowInput(in domain.ShowInput) (domain.ShowInput, *string, error) {
	in.Corps = normalize.Text(in.Corps)
	in.Title = normalize.Text(in.Title)
	poster := normalize.Optional(in.PosterURL)
	if in.Corps == "" || in.Title == "" {
		return in, nil, domainerrors.Validation("missing corps or title")
	}
	return in, poster, nil
}

// AddShow inserts a show unless one with the same normalized key exists.
// For a duplicate, the supplied poster is backfilled when the existing show has none.
func (s *Store) AddShow(ctx context.Context, in domain.ShowInput) (*domain.AddShowResult, error) {
	in, poster, err := cleanShowInput(in)
	if err != nil {
		return nil, err
	}
	key := normalize.NormKey(in.Year, in.Corps, in.Title)

	var result *domain.AddShowResult
	err = s.withTx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `
			INSERT INTO shows (title, corps, year, poster_url, norm_key, created_ts)
			VALUES (?, ?, ?, ?, ?, ?)`,
			in.Title, in.Corps, in.Year, nullableString(poster), key, s.nowUnix(),
		)
		if err == nil {
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
			result = &domain.AddShowResult{Created: true, ShowID: id, Status: domain.AddShowInserted}
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("insert show: %w", err)
		}

		var (
			existingID     int64
			existingPoster sql.NullString
		)
		err = q.QueryRowContext(ctx,
			`SELECT id, poster_url FROM shows WHERE norm_key = ?`, key,
		).Scan(&existingID, &existingPoster)
		if err != nil {
			return fmt.Errorf("lookup duplicate show: %w", err)
		}

		result = &domain.AddShowResult{ShowID: existingID, Status: domain.AddShowDuplicate}
		if poster != nil && strings.TrimSpace(existingPoster.String) == "" {
			if _, err := q.ExecContext(ctx,
				`UPDATE shows SET poster_url = ? WHERE id = ?`, *poster, existingID,
			); err != nil {
				return fmt.Errorf("backfill poster: %w", err)
			}
			result.Status = domain.AddShowDuplicatePosterUpdated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("add show", "show_id", result.ShowID, "status", result.Status, "norm_key", key)
	return result, nil
}

// UpdateShow replaces the editable fields of a show and recomputes its key.
// Returns a conflict error if another show already holds the new key.
func (s *Store) UpdateShow(ctx context.Context, id int64, in domain.ShowInput) error {
	in, poster, err := cleanShowInput(in)
	if err != nil {
		return err
	}
	key := normalize.NormKey(in.Year, in.Corps, in.Title)

	return s.withTx(ctx, func(q querier) error {
		var other int64
		err := q.QueryRowContext(ctx,
			`SELECT id FROM shows WHERE norm_key = ? AND id <> ?`, key, id,
		).Scan(&other)
		switch {
		case err == nil:
			return domainerrors.Conflict("another show already exists with the same year, corps and title")
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("check duplicate show: %w", err)
		}

		res, err := q.ExecContext(ctx, `
			UPDATE shows
			SET title = ?, corps = ?, year = ?, poster_url = ?, norm_key = ?
			WHERE id = ?`,
			in.Title, in.Corps, in.Year, nullableString(poster), key, id,
		)
		if err != nil {
			// The pre-check can race a concurrent writer; the constraint decides.
			if isUniqueViolation(err) {
				return domainerrors.Conflict("another show already exists with the same year, corps and title").WithCause(err)
			}
			return fmt.Errorf("update show: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return domainerrors.NotFoundf("show %d not found", id)
		}
		return nil
	})
}

// GetShow retrieves a show by ID.
func (s *Store) GetShow(ctx context.Context, id int64) (*domain.Show, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	sh, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("show %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return sh, nil
}

// ListShows returns every show matching filter with its rating aggregate,
// ordered by mode. Unknown modes use the default ordering.
func (s *Store) ListShows(ctx context.Context, mode domain.SortMode, filter domain.ShowFilter) ([]*domain.ShowWithStats, error) {
	var (
		where []string
		args  []any
	)
	if filter.Year != nil {
		where = append(where, "year = ?")
		args = append(args, *filter.Year)
	}
	if corps := strings.TrimSpace(filter.Corps); corps != "" {
		where = append(where, "corps = ? COLLATE NOCASE")
		args = append(args, corps)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	orderSQL, err := orderByClause(mode.Order(), catalogSortExprs)
	if err != nil {
		return nil, err
	}

	query := showStatsCTE + `
		SELECT ` + showStatsColumns + `
		FROM show_stats
		` + whereSQL + `
		` + orderSQL

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []*domain.ShowWithStats
	for rows.Next() {
		sw, err := scanShowWithStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, sw)
	}
	return shows, rows.Err()
}

// ShowDetail returns one show with its rating aggregate, or nil if it does not exist.
func (s *Store) ShowDetail(ctx context.Context, id int64) (*domain.ShowWithStats, error) {
	row := s.db.QueryRowContext(ctx, showStatsCTE+`
		SELECT `+showStatsColumns+` FROM show_stats WHERE id = ?`, id)
	sw, err := scanShowWithStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("show detail: %w", err)
	}
	return sw, nil
}
