// Package postgres implements the repositories on top of PostgreSQL.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-taskboard/internal/repository"
)

//go:embed schema.sql
var schema string

type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{pool: s.pool},
		Roles:    &roleRepository{pool: s.pool},
		Statuses: &statusRepository{pool: s.pool},
		Tasks:    &taskRepository{pool: s.pool},
	}
}

// Migrate creates the tables and unique indexes if they do not exist.
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ids share the format of the document store so clients see no difference
// between drivers.
func newID() string {
	return primitive.NewObjectID().Hex()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

func deletedPredicate(scope repository.DeletedScope) string {
	if scope == repository.NotDeleted {
		return "NOT is_deleted"
	}
	return "TRUE"
}

func softDelete(ctx context.Context, pool *pgxpool.Pool, table, id string) error {
	query := fmt.Sprintf(`
UPDATE %s
SET is_deleted = TRUE,
    updated_at = $1
WHERE id = $2 AND NOT is_deleted
`, table)
	tag, err := pool.Exec(ctx, query, now(), id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// setClause accumulates "column = $n" assignments for partial updates.
type setClause struct {
	columns []string
	args    []any
}

func (c *setClause) add(column string, value any) {
	c.args = append(c.args, value)
	c.columns = append(c.columns, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

func addIfPresent[T any](c *setClause, column string, value *T) {
	if value != nil {
		c.add(column, *value)
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
