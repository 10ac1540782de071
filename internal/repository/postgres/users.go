package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

const userColumns = `id,
       first_name,
       last_name,
       mobile,
       email,
       password,
       role_id,
       profile_picture,
       token,
       token_expires_at,
       is_deleted,
       created_at,
       updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u      models.User
		roleID *string
	)
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Mobile,
		&u.Email,
		&u.Password,
		&roleID,
		&u.ProfilePicture,
		&u.Token,
		&u.TokenExpiresAt,
		&u.IsDeleted,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.RoleID = derefString(roleID)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ts := now()
	id := newID()

	const insertUserQuery = `
INSERT INTO users (id,
                   first_name,
                   last_name,
                   mobile,
                   email,
                   password,
                   role_id,
                   profile_picture,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.pool.Exec(
		ctx,
		insertUserQuery,
		id,
		user.FirstName,
		user.LastName,
		user.Mobile,
		user.Email,
		user.Password,
		nullIfEmpty(user.RoleID),
		user.ProfilePicture,
		ts,
		ts,
	)
	if err != nil {
		return translateError(err)
	}

	user.ID = id
	user.CreatedAt, user.UpdatedAt = ts, ts
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1 AND NOT is_deleted
`
	u, err := scanUser(r.pool.QueryRow(ctx, selectUserByIDQuery, id))
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1 AND NOT is_deleted
`
	u, err := scanUser(r.pool.QueryRow(ctx, selectUserByEmailQuery, email))
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string, scope repository.DeletedScope) ([]*models.User, error) {
	query := `
SELECT ` + userColumns + `
FROM users
WHERE id = ANY($1) AND ` + deletedPredicate(scope)
	return r.query(ctx, query, ids)
}

func (r *userRepository) FindAll(ctx context.Context, f repository.UserFilter) ([]*models.User, error) {
	query := `
SELECT ` + userColumns + `
FROM users
WHERE ($1 = '' OR id = $1) AND ` + deletedPredicate(f.Deleted) + `
ORDER BY created_at
`
	return r.query(ctx, query, f.OnlyID)
}

func (r *userRepository) query(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id string, update repository.UserUpdate) (*models.User, error) {
	var set setClause
	set.add("updated_at", now())
	addIfPresent(&set, "first_name", update.FirstName)
	addIfPresent(&set, "last_name", update.LastName)
	addIfPresent(&set, "email", update.Email)
	addIfPresent(&set, "mobile", update.Mobile)
	addIfPresent(&set, "password", update.Password)
	addIfPresent(&set, "profile_picture", update.ProfilePicture)
	if update.RoleID != nil {
		set.add("role_id", nullIfEmpty(*update.RoleID))
	}

	return r.updateReturning(ctx, id, set)
}

func (r *userRepository) SetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	var set setClause
	set.add("token", token)
	set.add("token_expires_at", expiresAt.UTC())
	set.add("updated_at", now())

	_, err := r.updateReturning(ctx, id, set)
	return err
}

func (r *userRepository) updateReturning(ctx context.Context, id string, set setClause) (*models.User, error) {
	args := append(set.args, id)
	query := `
UPDATE users
SET ` + strings.Join(set.columns, ",\n    ") + `
WHERE id = $` + strconv.Itoa(len(args)) + ` AND NOT is_deleted
RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "users", id)
}
