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

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, username, pass_hash, is_admin, avatar_url, banner_url, theme_color, created_ts`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u          domain.User
		isAdmin    int
		avatarURL  sql.NullString
		bannerURL  sql.NullString
		themeColor sql.NullString
		createdTS  int64
	)
	err := scanner.Scan(
		&u.ID,
		&u.Username,
		&u.PassHash,
		&isAdmin,
		&avatarURL,
		&bannerURL,
		&themeColor,
		&createdTS,
	)
	if err != nil {
		return nil, err
	}

	u.IsAdmin = isAdmin == 1
	u.AvatarURL = stringPtr(avatarURL)
	u.BannerURL = stringPtr(bannerURL)
	u.ThemeColor = stringPtr(themeColor)
	u.CreatedAt = createdTS
	return &u, nil
}

// CreateUser inserts a new user. The first user ever created becomes an admin;
// the count and the insert share one transaction.
// Returns a conflict error if the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passHash string) (*domain.User, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return nil, domainerrors.Validation("username is required")
	}

	var user *domain.User
	err := s.withTx(ctx, func(q querier) error {
		var count int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		isAdmin := count == 0

		now := s.nowUnix()
		res, err := q.ExecContext(ctx,
			`INSERT INTO users (username, pass_hash, is_admin, created_ts) VALUES (?, ?, ?, ?)`,
			name, passHash, boolToInt(isAdmin), now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domainerrors.Conflict("username already taken").WithCause(err)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		user = &domain.User{
			ID:        id,
			Username:  name,
			PassHash:  passHash,
			IsAdmin:   isAdmin,
			CreatedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by exact (trimmed) username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	name := strings.TrimSpace(username)
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, name)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("user %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// UpdateProfileStyle replaces the presentation fields of a profile.
// Blank URLs and colors that are not #RRGGBB are stored as NULL.
func (s *Store) UpdateProfileStyle(ctx context.Context, userID int64, style domain.ProfileStyle) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET avatar_url = ?, banner_url = ?, theme_color = ?
		WHERE id = ?`,
		nullableString(normalize.Optional(style.AvatarURL)),
		nullableString(normalize.Optional(style.BannerURL)),
		nullableString(normalize.Optional(normalize.HexColor(style.ThemeColor))),
		userID,
	)
	if err != nil {
		return fmt.Errorf("update profile style: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFoundf("user %d not found", userID)
	}
	return nil
}
