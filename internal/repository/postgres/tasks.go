package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

const taskColumns = `id,
       title,
       description,
       status_id,
       assignee_id,
       due_date,
       priority,
       is_deleted,
       created_at,
       updated_at`

var sortColumns = map[repository.SortField]string{
	repository.SortCreatedAt: "created_at",
	repository.SortUpdatedAt: "updated_at",
	repository.SortTitle:     "title",
	repository.SortPriority:  "priority",
	repository.SortDueDate:   "due_date",
}

type taskRepository struct {
	pool *pgxpool.Pool
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		t          models.Task
		assigneeID *string
		priority   string
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.StatusID,
		&assigneeID,
		&t.DueDate,
		&priority,
		&t.IsDeleted,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.AssigneeID = derefString(assigneeID)
	t.Priority = models.Priority(priority)
	return &t, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	ts := now()
	id := newID()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status_id,
                   assignee_id,
                   due_date,
                   priority,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.pool.Exec(
		ctx,
		insertTaskQuery,
		id,
		task.Title,
		task.Description,
		task.StatusID,
		nullIfEmpty(task.AssigneeID),
		task.DueDate,
		string(task.Priority),
		ts,
		ts,
	)
	if err != nil {
		return translateError(err)
	}

	task.ID = id
	task.CreatedAt, task.UpdatedAt = ts, ts
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1 AND NOT is_deleted
`
	t, err := scanTask(r.pool.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, translateError(err)
	}
	return t, nil
}

func (r *taskRepository) Find(ctx context.Context, query repository.TaskQuery) ([]*models.Task, error) {
	where, args := taskWhere(query.Filter)

	var sb strings.Builder
	sb.WriteString("\nSELECT " + taskColumns + "\nFROM tasks\nWHERE " + where)
	sb.WriteString("\nORDER BY " + taskOrderBy(query.Sort))
	if query.Limit > 0 {
		args = append(args, query.Limit)
		sb.WriteString("\nLIMIT $" + strconv.Itoa(len(args)))
	}
	if query.Skip > 0 {
		args = append(args, query.Skip)
		sb.WriteString("\nOFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	where, args := taskWhere(filter)

	var n int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE "+where, args...).Scan(&n)
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, update repository.TaskUpdate) (*models.Task, error) {
	var set setClause
	set.add("updated_at", now())
	addIfPresent(&set, "title", update.Title)
	addIfPresent(&set, "description", update.Description)
	addIfPresent(&set, "status_id", update.StatusID)
	addIfPresent(&set, "due_date", update.DueDate)
	if update.Priority != nil {
		set.add("priority", string(*update.Priority))
	}
	if update.AssigneeID != nil {
		set.add("assignee_id", nullIfEmpty(*update.AssigneeID))
	}

	args := append(set.args, id)
	query := `
UPDATE tasks
SET ` + strings.Join(set.columns, ",\n    ") + `
WHERE id = $` + strconv.Itoa(len(args)) + ` AND NOT is_deleted
RETURNING ` + taskColumns

	t, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err)
	}
	return t, nil
}

func (r *taskRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "tasks", id)
}

// taskWhere renders f as a boolean SQL expression with positional
// arguments starting at $1.
func taskWhere(f repository.TaskFilter) (string, []any) {
	conds := []string{deletedPredicate(f.Deleted)}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.AssigneeID != "" {
		conds = append(conds, "assignee_id = "+arg(f.AssigneeID))
	}
	if f.StatusID != "" {
		conds = append(conds, "status_id = "+arg(f.StatusID))
	}
	if f.Priority != "" {
		conds = append(conds, "priority = "+arg(string(f.Priority)))
	}
	if f.DueFrom != nil {
		conds = append(conds, "due_date >= "+arg(*f.DueFrom))
	}
	if f.DueTo != nil {
		conds = append(conds, "due_date <= "+arg(*f.DueTo))
	}
	if f.Search != "" {
		p := arg(f.Search)
		conds = append(conds, fmt.Sprintf(
			"(STRPOS(LOWER(title), LOWER(%[1]s)) > 0 OR STRPOS(LOWER(description), LOWER(%[1]s)) > 0 OR STRPOS(priority, LOWER(%[1]s)) > 0)",
			p,
		))
	}
	return strings.Join(conds, " AND "), args
}

func taskOrderBy(order []repository.SortOrder) string {
	if len(order) == 0 {
		order = repository.DefaultTaskSort
	}

	terms := make([]string, 0, len(order)+1)
	for _, o := range order {
		column, ok := sortColumns[o.Field]
		if !ok {
			continue
		}
		if o.Descending {
			terms = append(terms, column+" DESC NULLS LAST")
		} else {
			terms = append(terms, column+" ASC NULLS FIRST")
		}
	}
	return strings.Join(append(terms, "id ASC"), ", ")
}
