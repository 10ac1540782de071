package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

const statusColumns = `id, name, sort_order, is_deleted, created_at, updated_at`

type statusRepository struct {
	pool *pgxpool.Pool
}

func scanStatus(row pgx.Row) (*models.Status, error) {
	var st models.Status
	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Order,
		&st.IsDeleted,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *statusRepository) Create(ctx context.Context, status *models.Status) error {
	ts := now()
	id := newID()

	const insertStatusQuery = `
INSERT INTO statuses (id, name, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.pool.Exec(ctx, insertStatusQuery, id, status.Name, status.Order, ts, ts)
	if err != nil {
		return translateError(err)
	}

	status.ID = id
	status.CreatedAt, status.UpdatedAt = ts, ts
	return nil
}

func (r *statusRepository) FindByID(ctx context.Context, id string) (*models.Status, error) {
	const selectStatusByIDQuery = `
SELECT ` + statusColumns + `
FROM statuses
WHERE id = $1 AND NOT is_deleted
`
	return r.queryRow(ctx, selectStatusByIDQuery, id)
}

func (r *statusRepository) FindByName(ctx context.Context, name string) (*models.Status, error) {
	const selectStatusByNameQuery = `
SELECT ` + statusColumns + `
FROM statuses
WHERE LOWER(name) = LOWER($1) AND NOT is_deleted
`
	return r.queryRow(ctx, selectStatusByNameQuery, name)
}

func (r *statusRepository) FindByOrder(ctx context.Context, order int) (*models.Status, error) {
	const selectStatusByOrderQuery = `
SELECT ` + statusColumns + `
FROM statuses
WHERE sort_order = $1 AND NOT is_deleted
`
	return r.queryRow(ctx, selectStatusByOrderQuery, order)
}

func (r *statusRepository) queryRow(ctx context.Context, query string, args ...any) (*models.Status, error) {
	st, err := scanStatus(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err)
	}
	return st, nil
}

func (r *statusRepository) FindByIDs(ctx context.Context, ids []string, scope repository.DeletedScope) ([]*models.Status, error) {
	query := `
SELECT ` + statusColumns + `
FROM statuses
WHERE id = ANY($1) AND ` + deletedPredicate(scope)
	return r.query(ctx, query, ids)
}

func (r *statusRepository) FindAll(ctx context.Context) ([]*models.Status, error) {
	const selectStatusesQuery = `
SELECT ` + statusColumns + `
FROM statuses
WHERE NOT is_deleted
ORDER BY sort_order
`
	return r.query(ctx, selectStatusesQuery)
}

func (r *statusRepository) query(ctx context.Context, query string, args ...any) ([]*models.Status, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	statuses := make([]*models.Status, 0)
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

func (r *statusRepository) Update(ctx context.Context, id string, update repository.StatusUpdate) (*models.Status, error) {
	var set setClause
	set.add("updated_at", now())
	addIfPresent(&set, "name", update.Name)
	addIfPresent(&set, "sort_order", update.Order)

	args := append(set.args, id)
	query := `
UPDATE statuses
SET ` + strings.Join(set.columns, ",\n    ") + `
WHERE id = $` + strconv.Itoa(len(args)) + ` AND NOT is_deleted
RETURNING ` + statusColumns

	return r.queryRow(ctx, query, args...)
}

func (r *statusRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "statuses", id)
}
