package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitumusic/waitumusic/internal/platform/db"
)

const uniqueViolation = "23505"

const customRoleColumns = `id, name, display_name, description, permissions, inherit_from, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for custom roles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListCustomRoles returns all custom roles in creation order.
func (r *Repository) ListCustomRoles(ctx context.Context) ([]CustomRole, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customRoleColumns+` FROM custom_roles ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CustomRole
	for rows.Next() {
		role, err := scanCustomRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCustomRole fetches a custom role by name.
func (r *Repository) GetCustomRole(ctx context.Context, name string) (CustomRole, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customRoleColumns+` FROM custom_roles WHERE name = $1`, name)
	role, err := scanCustomRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomRole{}, ErrNotFound
		}
		return CustomRole{}, err
	}
	return role, nil
}

// CreateCustomRole inserts a custom role.
func (r *Repository) CreateCustomRole(ctx context.Context, role CustomRole) (CustomRole, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO custom_roles (id, name, display_name, description, permissions, inherit_from)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+customRoleColumns,
		role.ID, role.Name, role.DisplayName, role.Description, role.Permissions, nullableText(role.InheritFrom))
	created, err := scanCustomRole(row)
	if err != nil {
		return CustomRole{}, mapWriteError(err)
	}
	return created, nil
}

// UpdateCustomRole replaces the mutable fields of a custom role.
func (r *Repository) UpdateCustomRole(ctx context.Context, role CustomRole) (CustomRole, error) {
	row := r.pool.QueryRow(ctx, `UPDATE custom_roles
SET display_name = $2, description = $3, permissions = $4, inherit_from = $5, updated_at = NOW()
WHERE name = $1
RETURNING `+customRoleColumns,
		role.Name, role.DisplayName, role.Description, role.Permissions, nullableText(role.InheritFrom))
	updated, err := scanCustomRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomRole{}, ErrNotFound
		}
		return CustomRole{}, mapWriteError(err)
	}
	return updated, nil
}

// DeleteCustomRole removes a custom role by name. The child check runs in the
// same transaction so a concurrent create cannot attach to a deleted parent.
func (r *Repository) DeleteCustomRole(ctx context.Context, name string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var children int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM custom_roles WHERE inherit_from = $1`, name).Scan(&children); err != nil {
			return err
		}
		if children > 0 {
			return ErrRoleInUse
		}
		tag, err := tx.Exec(ctx, `DELETE FROM custom_roles WHERE name = $1`, name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanCustomRole(row pgx.Row) (CustomRole, error) {
	var (
		role    CustomRole
		inherit pgtype.Text
	)
	if err := row.Scan(&role.ID, &role.Name, &role.DisplayName, &role.Description, &role.Permissions, &inherit, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return CustomRole{}, err
	}
	if inherit.Valid {
		role.InheritFrom = inherit.String
	}
	return role, nil
}

func nullableText(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
