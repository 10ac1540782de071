package services

import (
	"context"
	"errors"
	"testing"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/query"
)

func TestTaskService_CreateAssignee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)

	task := env.createTask(t, alice, "mine", bob.UserID)
	if task.AssigneeID != alice.UserID {
		t.Errorf("assignee = %q, want the caller %q", task.AssigneeID, alice.UserID)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Status == nil || task.Status.Name != "To Do" {
		t.Errorf("status not joined: %+v", task.Status)
	}

	task = env.createTask(t, admin, "for bob", bob.UserID)
	if task.AssigneeID != bob.UserID || task.Assignee == nil || task.Assignee.Email != "bob@example.com" {
		t.Errorf("admin assignment not applied: %+v", task)
	}

	_, err := env.tasks.Create(ctx, admin, CreateTaskParams{
		Title:      "ghost",
		StatusID:   env.todo.ID,
		AssigneeID: "64b7f0c2a1b2c3d4e5f6ffff",
	})
	if !errors.Is(err, ErrInvalidAssignee) {
		t.Errorf("err = %v, want ErrInvalidAssignee", err)
	}

	_, err = env.tasks.Create(ctx, admin, CreateTaskParams{Title: "x", StatusID: "64b7f0c2a1b2c3d4e5f6ffff"})
	if !errors.Is(err, ErrStatusNotFound) {
		t.Errorf("err = %v, want ErrStatusNotFound", err)
	}
}

func TestTaskService_NonAdminListIsScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)

	env.createTask(t, alice, "a1", "")
	env.createTask(t, alice, "a2", "")
	env.createTask(t, bob, "b1", "")
	env.createTask(t, admin, "unassigned", "")

	list, err := env.tasks.List(ctx, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d tasks, want 2", len(list))
	}
	for _, task := range list {
		if task.AssigneeID != alice.UserID {
			t.Errorf("listing contains task of %q", task.AssigneeID)
		}
	}
	if list[0].Title != "a2" {
		t.Errorf("first task = %q, want the newest", list[0].Title)
	}

	list, err = env.tasks.List(ctx, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 4 {
		t.Errorf("admin got %d tasks, want 4", len(list))
	}

	board, err := env.tasks.Board(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board) != 4 {
		t.Errorf("board has %d tasks, want 4", len(board))
	}
}

func TestTaskService_ForeignTaskIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)

	done, err := env.statuses.Create(ctx, admin, "Done", 3)
	if err != nil {
		t.Fatalf("failed to create status: %v", err)
	}
	task := env.createTask(t, alice, "alice's", "")
	unassigned := env.createTask(t, admin, "nobody's", "")
	title := "hijacked"

	for _, id := range []string{task.ID, unassigned.ID} {
		if _, err = env.tasks.Get(ctx, bob, id); !errors.Is(err, ErrForbidden) {
			t.Errorf("get: err = %v, want ErrForbidden", err)
		}
		if _, err = env.tasks.Update(ctx, bob, UpdateTaskParams{ID: id, Title: &title}); !errors.Is(err, ErrForbidden) {
			t.Errorf("update: err = %v, want ErrForbidden", err)
		}
		if _, err = env.tasks.Move(ctx, bob, id, done.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("move: err = %v, want ErrForbidden", err)
		}
		if err = env.tasks.Delete(ctx, bob, id); !errors.Is(err, ErrForbidden) {
			t.Errorf("delete: err = %v, want ErrForbidden", err)
		}
	}

	stored, err := env.repos.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("task is gone: %v", err)
	}
	if stored.Title != task.Title || stored.StatusID != task.StatusID || stored.IsDeleted {
		t.Errorf("task changed: %+v", stored)
	}
}

func TestTaskService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)
	task := env.createTask(t, alice, "draft", "")

	title := "final"
	priority := models.PriorityHigh
	updated, err := env.tasks.Update(ctx, alice, UpdateTaskParams{
		ID:         task.ID,
		Title:      &title,
		Priority:   &priority,
		AssigneeID: &bob.UserID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "final" || updated.Priority != models.PriorityHigh {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.AssigneeID != alice.UserID {
		t.Errorf("non-admin reassigned the task to %q", updated.AssigneeID)
	}

	updated, err = env.tasks.Update(ctx, admin, UpdateTaskParams{ID: task.ID, AssigneeID: &bob.UserID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AssigneeID != bob.UserID {
		t.Errorf("admin reassignment not applied: %q", updated.AssigneeID)
	}

	_, err = env.tasks.Update(ctx, admin, UpdateTaskParams{ID: task.ID})
	if !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("err = %v, want ErrNoFieldsToUpdate", err)
	}

	missing := "64b7f0c2a1b2c3d4e5f6ffff"
	_, err = env.tasks.Update(ctx, admin, UpdateTaskParams{ID: task.ID, StatusID: &missing})
	if !errors.Is(err, ErrStatusNotFound) {
		t.Errorf("err = %v, want ErrStatusNotFound", err)
	}
	_, err = env.tasks.Update(ctx, admin, UpdateTaskParams{ID: task.ID, AssigneeID: &missing})
	if !errors.Is(err, ErrInvalidAssignee) {
		t.Errorf("err = %v, want ErrInvalidAssignee", err)
	}
}

func TestTaskService_Move(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)

	done, err := env.statuses.Create(ctx, admin, "Done", 3)
	if err != nil {
		t.Fatalf("failed to create status: %v", err)
	}
	task := env.createTask(t, alice, "ship it", "")

	moved, err := env.tasks.Move(ctx, alice, task.ID, done.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.StatusID != done.ID || moved.Status.Name != "Done" {
		t.Errorf("task not moved: %+v", moved.Status)
	}

	_, err = env.tasks.Move(ctx, alice, task.ID, "64b7f0c2a1b2c3d4e5f6ffff")
	if !errors.Is(err, ErrStatusNotFound) {
		t.Errorf("err = %v, want ErrStatusNotFound", err)
	}
	_, err = env.tasks.Move(ctx, alice, "64b7f0c2a1b2c3d4e5f6ffff", done.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskService_DeleteTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", env.userRole)
	task := env.createTask(t, alice, "temp", "")

	if err := env.tasks.Delete(ctx, alice, task.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := env.tasks.Delete(ctx, alice, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second delete: err = %v, want ErrTaskNotFound", err)
	}
	if _, err := env.tasks.Get(ctx, alice, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("get: err = %v, want ErrTaskNotFound", err)
	}

	list, err := env.tasks.List(ctx, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted task still listed: %+v", list)
	}
}

func TestTaskService_DeletedReferencesStillResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	task := env.createTask(t, admin, "legacy", alice.UserID)

	if err := env.statuses.Delete(ctx, admin, env.todo.ID); err != nil {
		t.Fatalf("failed to delete status: %v", err)
	}
	if err := env.users.Delete(ctx, admin, alice.UserID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	view, err := env.tasks.Get(ctx, admin, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status == nil || view.Status.Name != "To Do" {
		t.Errorf("deleted status not resolved: %+v", view.Status)
	}
	if view.Assignee == nil || view.Assignee.ID != alice.UserID {
		t.Errorf("deleted assignee not resolved: %+v", view.Assignee)
	}
}

func TestTaskService_Paginate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	env.createTask(t, alice, "first", "")
	env.createTask(t, alice, "second", "")
	env.createTask(t, admin, "admin's", "")

	page, err := env.tasks.Paginate(ctx, alice, query.Params{Page: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(page.Tasks))
	}
	if page.Tasks[0].Title != "first" {
		t.Errorf("page 2 holds %q, want the older task", page.Tasks[0].Title)
	}
	want := query.Pagination{Page: 2, PageSize: 1, TotalRecords: 2, TotalPages: 2}
	if page.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", page.Pagination, want)
	}
}

func TestTaskService_PaginateFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	env.createTask(t, alice, "Quarterly report", "")
	env.createTask(t, alice, "Groceries", "")

	tests := []struct {
		name   string
		caller policy.Caller
		params query.Params
		want   int
	}{
		{"search", alice, query.Params{Search: "REPORT"}, 1},
		{"search is literal", alice, query.Params{Search: "re.ort"}, 0},
		{"foreign assignee narrows to nothing", alice, query.Params{Filter: []byte(`{"assignee":"` + admin.UserID + `"}`)}, 0},
		{"admin filters by assignee", admin, query.Params{Filter: []byte(`{"assignee":"` + alice.UserID + `"}`)}, 2},
		{"priority", admin, query.Params{Filter: []byte(`{"priority":"high"}`)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Page, tt.params.PageSize = 1, 10
			page, err := env.tasks.Paginate(ctx, tt.caller, tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(page.Tasks) != tt.want || page.Pagination.TotalRecords != int64(tt.want) {
				t.Errorf("got %d tasks (%d total), want %d", len(page.Tasks), page.Pagination.TotalRecords, tt.want)
			}
		})
	}

	_, err := env.tasks.Paginate(ctx, alice, query.Params{Page: 1, PageSize: 10, Filter: []byte(`{"owner":1}`)})
	if !errors.Is(err, query.ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}
