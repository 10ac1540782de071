package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

func TestStatusRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStorage().Repositories().Statuses

	todo := &models.Status{Name: "To Do", Order: 1}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		status *models.Status
	}{
		{"same name other case", &models.Status{Name: "to do", Order: 2}},
		{"same order", &models.Status{Name: "Done", Order: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Create(ctx, tt.status); !errors.Is(err, repository.ErrDuplicate) {
				t.Errorf("Create() error = %v, want ErrDuplicate", err)
			}
		})
	}

	// A deleted status frees its name and order.
	if err := repo.SoftDelete(ctx, todo.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &models.Status{Name: "To Do", Order: 1}); err != nil {
		t.Errorf("Create() after delete error = %v", err)
	}

	if _, err := repo.FindByID(ctx, todo.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindByID(deleted) error = %v", err)
	}
	found, err := repo.FindByIDs(ctx, []string{todo.ID}, repository.AnyDeleted)
	if err != nil || len(found) != 1 || !found[0].IsDeleted {
		t.Errorf("FindByIDs(AnyDeleted) = %v, %v", found, err)
	}
	if found, _ = repo.FindByIDs(ctx, []string{todo.ID}, repository.NotDeleted); len(found) != 0 {
		t.Errorf("FindByIDs(NotDeleted) returned deleted statuses")
	}
}

func TestTaskRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewStorage().Repositories().Tasks

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	due := base.Add(48 * time.Hour)
	tasks := []*models.Task{
		{Title: "Write report", AssigneeID: "alice", Priority: models.PriorityHigh, DueDate: &due, CreatedAt: base},
		{Title: "review code", AssigneeID: "alice", Priority: models.PriorityLow, CreatedAt: base.Add(time.Hour)},
		{Title: "Deploy", Description: "after the REPORT", AssigneeID: "bob", Priority: models.PriorityMedium, CreatedAt: base.Add(2 * time.Hour)},
		{Title: "Deleted", AssigneeID: "alice", Priority: models.PriorityHigh, CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, task := range tasks {
		if err := repo.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.SoftDelete(ctx, tasks[3].ID); err != nil {
		t.Fatal(err)
	}

	dueFrom := base.Add(24 * time.Hour)
	tests := []struct {
		name  string
		query repository.TaskQuery
		want  []string
	}{
		{"default sort is newest first", repository.TaskQuery{}, []string{"Deploy", "review code", "Write report"}},
		{"any deleted", repository.TaskQuery{Filter: repository.TaskFilter{Deleted: repository.AnyDeleted, AssigneeID: "alice"}}, []string{"Deleted", "review code", "Write report"}},
		{"assignee", repository.TaskQuery{Filter: repository.TaskFilter{AssigneeID: "alice"}}, []string{"review code", "Write report"}},
		{"search is case-insensitive", repository.TaskQuery{Filter: repository.TaskFilter{Search: "report"}}, []string{"Deploy", "Write report"}},
		{"search matches priority", repository.TaskQuery{Filter: repository.TaskFilter{Search: "LOW"}}, []string{"review code"}},
		{"search is literal", repository.TaskQuery{Filter: repository.TaskFilter{Search: ".*"}}, nil},
		{"due range excludes missing dates", repository.TaskQuery{Filter: repository.TaskFilter{DueFrom: &dueFrom}}, []string{"Write report"}},
		{"title ascending", repository.TaskQuery{Sort: []repository.SortOrder{{Field: repository.SortTitle}}}, []string{"Deploy", "Write report", "review code"}},
		{"due date puts missing first", repository.TaskQuery{Sort: []repository.SortOrder{{Field: repository.SortDueDate}, {Field: repository.SortTitle}}}, []string{"Deploy", "review code", "Write report"}},
		{"skip and limit", repository.TaskQuery{Skip: 1, Limit: 1}, []string{"review code"}},
		{"skip past the end", repository.TaskQuery{Skip: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.Find(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(found) != len(tt.want) {
				t.Fatalf("got %d tasks, want %v", len(found), tt.want)
			}
			for i, task := range found {
				if task.Title != tt.want[i] {
					t.Errorf("task %d = %q, want %q", i, task.Title, tt.want[i])
				}
			}

			count, err := repo.Count(ctx, tt.query.Filter)
			if err != nil {
				t.Fatal(err)
			}
			if tt.query.Skip == 0 && tt.query.Limit == 0 && count != int64(len(tt.want)) {
				t.Errorf("Count() = %d, want %d", count, len(tt.want))
			}
		})
	}
}

func TestTaskRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStorage().Repositories().Tasks

	task := &models.Task{Title: "original"}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatal(err)
	}
	task.Title = "mutated"

	found, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	found.Title = "mutated again"

	if found, _ = repo.FindByID(ctx, task.ID); found.Title != "original" {
		t.Errorf("stored title = %q", found.Title)
	}
}
