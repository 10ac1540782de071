package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type taskRepository struct {
	s *Storage
}

func (r *taskRepository) Create(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task.ID = newID()
	stored := *task
	r.s.tasks[task.ID] = &stored
	return nil
}

func (r *taskRepository) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok || t.IsDeleted {
		return nil, repository.ErrNotFound
	}
	found := *t
	return &found, nil
}

func (r *taskRepository) Find(_ context.Context, query repository.TaskQuery) ([]*models.Task, error) {
	r.s.mu.RLock()
	tasks := r.filterLocked(query.Filter)
	r.s.mu.RUnlock()

	order := query.Sort
	if len(order) == 0 {
		order = repository.DefaultTaskSort
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return lessTask(tasks[i], tasks[j], order)
	})

	if query.Skip >= int64(len(tasks)) {
		return []*models.Task{}, nil
	}
	tasks = tasks[query.Skip:]
	if query.Limit > 0 && query.Limit < int64(len(tasks)) {
		tasks = tasks[:query.Limit]
	}
	return tasks, nil
}

func (r *taskRepository) Count(_ context.Context, filter repository.TaskFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.filterLocked(filter))), nil
}

func (r *taskRepository) filterLocked(filter repository.TaskFilter) []*models.Task {
	tasks := make([]*models.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		if matchTask(t, filter) {
			found := *t
			tasks = append(tasks, &found)
		}
	}
	return tasks
}

func (r *taskRepository) Update(_ context.Context, id string, update repository.TaskUpdate) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.IsDeleted {
		return nil, repository.ErrNotFound
	}

	setIfPresent(&t.Title, update.Title)
	setIfPresent(&t.Description, update.Description)
	setIfPresent(&t.StatusID, update.StatusID)
	setIfPresent(&t.AssigneeID, update.AssigneeID)
	setIfPresent(&t.Priority, update.Priority)
	if update.DueDate != nil {
		due := *update.DueDate
		t.DueDate = &due
	}
	t.UpdatedAt = time.Now()

	updated := *t
	return &updated, nil
}

func (r *taskRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.IsDeleted {
		return repository.ErrNotFound
	}
	t.IsDeleted = true
	t.UpdatedAt = time.Now()
	return nil
}

func matchTask(t *models.Task, f repository.TaskFilter) bool {
	if !visible(t.IsDeleted, f.Deleted) {
		return false
	}
	if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
		return false
	}
	if f.StatusID != "" && t.StatusID != f.StatusID {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.DueFrom != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueFrom)) {
		return false
	}
	if f.DueTo != nil && (t.DueDate == nil || t.DueDate.After(*f.DueTo)) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(string(t.Priority)), needle) {
			return false
		}
	}
	return true
}

func lessTask(a, b *models.Task, order []repository.SortOrder) bool {
	for _, o := range order {
		c := compareTasks(a, b, o.Field)
		if c == 0 {
			continue
		}
		if o.Descending {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}

func compareTasks(a, b *models.Task, field repository.SortField) int {
	switch field {
	case repository.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case repository.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case repository.SortTitle:
		return strings.Compare(a.Title, b.Title)
	case repository.SortPriority:
		return strings.Compare(string(a.Priority), string(b.Priority))
	case repository.SortDueDate:
		// Missing due dates sort first, as they do in the persistent drivers.
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return -1
		case b.DueDate == nil:
			return 1
		}
		return a.DueDate.Compare(*b.DueDate)
	}
	return 0
}

func sortByCreation[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
}
