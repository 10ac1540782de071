package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

const roleColumns = `id, name, is_deleted, created_at, updated_at`

type roleRepository struct {
	pool *pgxpool.Pool
}

func scanRole(row pgx.Row) (*models.Role, error) {
	var role models.Role
	err := row.Scan(
		&role.ID,
		&role.Name,
		&role.IsDeleted,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	ts := now()
	id := newID()

	const insertRoleQuery = `
INSERT INTO roles (id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4)
`
	_, err := r.pool.Exec(ctx, insertRoleQuery, id, role.Name, ts, ts)
	if err != nil {
		return translateError(err)
	}

	role.ID = id
	role.CreatedAt, role.UpdatedAt = ts, ts
	return nil
}

func (r *roleRepository) FindByID(ctx context.Context, id string) (*models.Role, error) {
	const selectRoleByIDQuery = `
SELECT ` + roleColumns + `
FROM roles
WHERE id = $1 AND NOT is_deleted
`
	role, err := scanRole(r.pool.QueryRow(ctx, selectRoleByIDQuery, id))
	if err != nil {
		return nil, translateError(err)
	}
	return role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	const selectRoleByNameQuery = `
SELECT ` + roleColumns + `
FROM roles
WHERE name = $1 AND NOT is_deleted
`
	role, err := scanRole(r.pool.QueryRow(ctx, selectRoleByNameQuery, name))
	if err != nil {
		return nil, translateError(err)
	}
	return role, nil
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []string, scope repository.DeletedScope) ([]*models.Role, error) {
	query := `
SELECT ` + roleColumns + `
FROM roles
WHERE id = ANY($1) AND ` + deletedPredicate(scope)
	return r.query(ctx, query, ids)
}

func (r *roleRepository) FindAll(ctx context.Context) ([]*models.Role, error) {
	const selectRolesQuery = `
SELECT ` + roleColumns + `
FROM roles
WHERE NOT is_deleted
ORDER BY created_at
`
	return r.query(ctx, selectRolesQuery)
}

func (r *roleRepository) query(ctx context.Context, query string, args ...any) ([]*models.Role, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	roles := make([]*models.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) Update(ctx context.Context, id, name string) (*models.Role, error) {
	const updateRoleQuery = `
UPDATE roles
SET name = $1,
    updated_at = $2
WHERE id = $3 AND NOT is_deleted
RETURNING ` + roleColumns

	role, err := scanRole(r.pool.QueryRow(ctx, updateRoleQuery, name, now(), id))
	if err != nil {
		return nil, translateError(err)
	}
	return role, nil
}

func (r *roleRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "roles", id)
}
