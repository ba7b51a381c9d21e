package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/normalize"
)

// roleColumns is the ordered list of columns selected in role queries.
// Must match the scan order in scanRole.
const roleColumns = `rl.id, rl.name, rl.slug, rl.color, rl.created_ts`

func scanRole(scanner interface{ Scan(dest ...any) error }) (*domain.Role, error) {
	var (
		r         domain.Role
		color     sql.NullString
		createdTS int64
	)
	if err := scanner.Scan(&r.ID, &r.Name, &r.Slug, &color, &createdTS); err != nil {
		return nil, err
	}
	r.Color = stringPtr(color)
	r.CreatedAt = createdTS
	return &r, nil
}

// cleanRoleInput trims the name and drops colors that are not #RRGGBB.
func cleanRoleInput(name, color string) (string, *string, error) {
	nm := normalize.Text(name)
	if nm == "" {
		return "", nil, domainerrors.Validation("role name is required")
	}
	return nm, normalize.Optional(normalize.HexColor(color)), nil
}

// uniqueRoleSlug returns the first free slug derived from name.
func uniqueRoleSlug(ctx context.Context, q querier, name string) (string, error) {
	base := normalize.Slug(name)
	for n := 1; ; n++ {
		candidate := normalize.SlugCandidate(base, n)
		var exists int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM roles WHERE slug = ?`, candidate).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check role slug: %w", err)
		}
	}
}

// CreateRole creates a role with a slug derived from its name.
// Colliding slugs get a numeric suffix; colliding names are a conflict.
func (s *Store) CreateRole(ctx context.Context, name, color string) (*domain.Role, error) {
	nm, col, err := cleanRoleInput(name, color)
	if err != nil {
		return nil, err
	}

	var role *domain.Role
	err = s.withTx(ctx, func(q querier) error {
		slug, err := uniqueRoleSlug(ctx, q, nm)
		if err != nil {
			return err
		}

		now := s.nowUnix()
		res, err := q.ExecContext(ctx,
			`INSERT INTO roles (name, slug, color, created_ts) VALUES (?, ?, ?, ?)`,
			nm, slug, nullableString(col), now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domainerrors.Conflictf("role %q already exists", nm).WithCause(err)
			}
			return fmt.Errorf("insert role: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		role = &domain.Role{ID: id, Name: nm, Slug: slug, Color: col, CreatedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRole renames and recolors a role. The slug never changes.
func (s *Store) UpdateRole(ctx context.Context, id int64, name, color string) error {
	nm, col, err := cleanRoleInput(name, color)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, color = ? WHERE id = ?`, nm, nullableString(col), id)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.Conflictf("role %q already exists", nm).WithCause(err)
		}
		return fmt.Errorf("update role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFoundf("role %d not found", id)
	}
	return nil
}

// DeleteRole removes a role and all of its assignments.
func (s *Store) DeleteRole(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFoundf("role %d not found", id)
	}
	return nil
}

// GetRole retrieves a role by ID.
func (s *Store) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles rl WHERE rl.id = ?`, id)
	r, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("role %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return r, nil
}

// ListRoles returns all roles ordered by name.
func (s *Store) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles rl ORDER BY rl.name COLLATE NOCASE ASC, rl.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	return collectRoles(rows)
}

func collectRoles(rows *sql.Rows) ([]*domain.Role, error) {
	var roles []*domain.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// AssignRole gives a role to a user. Assigning a role the user already holds is a no-op
// and keeps the original assignment time.
func (s *Store) AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_roles (user_id, role_id, assigned_ts, assigned_by_user_id)
		VALUES (?, ?, ?, ?)`,
		userID, roleID, s.nowUnix(), nullInt64(assignedBy),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainerrors.NotFound("user or role not found").WithCause(err)
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RemoveRole takes a role away from a user. Removing an unassigned role is a no-op.
func (s *Store) RemoveRole(ctx context.Context, userID, roleID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`, userID, roleID)
	if err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

// RolesForUser returns the user's roles in assignment order. The first one is primary.
func (s *Store) RolesForUser(ctx context.Context, userID int64) ([]*domain.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+roleColumns+`
		FROM user_roles ur
		JOIN roles rl ON rl.id = ur.role_id
		WHERE ur.user_id = ?
		ORDER BY ur.assigned_ts ASC, rl.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("roles for user: %w", err)
	}
	defer rows.Close()
	return collectRoles(rows)
}

// PrimaryRoleForUser returns the user's earliest-assigned role, or nil if they have none.
func (s *Store) PrimaryRoleForUser(ctx context.Context, userID int64) (*domain.Role, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+roleColumns+`
		FROM user_roles ur
		JOIN roles rl ON rl.id = ur.role_id
		WHERE ur.user_id = ?
		ORDER BY ur.assigned_ts ASC, rl.id ASC
		LIMIT 1`,
		userID,
	)
	r, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("primary role: %w", err)
	}
	return r, nil
}
