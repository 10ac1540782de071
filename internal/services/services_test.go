package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/repository"
	"github.com/adanyl0v/go-taskboard/internal/repository/memory"
)

const (
	testIssuer   = "taskboard-test"
	testPassword = "s3cret-pass"
)

var testSigningKey = []byte("test-signing-key")

type testEnv struct {
	repos    repository.Repositories
	auth     *authServiceImpl
	users    UserService
	roles    RoleService
	statuses StatusService
	tasks    TaskService

	adminRole *models.Role
	userRole  *models.Role
	todo      *models.Status
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()
	repos := memory.NewStorage().Repositories()

	env := &testEnv{repos: repos}
	env.adminRole = mustCreateRole(t, repos, models.RoleAdmin)
	env.userRole = mustCreateRole(t, repos, "User")

	env.auth = NewAuthService(
		logger,
		repos.Users,
		repos.Roles,
		testIssuer,
		testSigningKey,
		time.Hour,
		env.userRole.ID,
	).(*authServiceImpl)
	env.users = NewUserService(logger, repos.Users, repos.Roles)
	env.roles = NewRoleService(logger, repos.Roles)
	env.statuses = NewStatusService(logger, repos.Statuses)
	env.tasks = NewTaskService(logger, repos.Tasks, repos.Statuses, repos.Users)

	env.todo = &models.Status{Name: "To Do", Order: 1}
	if err := repos.Statuses.Create(ctx, env.todo); err != nil {
		t.Fatalf("failed to create status: %v", err)
	}
	return env
}

func mustCreateRole(t *testing.T, repos repository.Repositories, name string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	if err := repos.Roles.Create(context.Background(), role); err != nil {
		t.Fatalf("failed to create role %q: %v", name, err)
	}
	return role
}

// register creates a user and returns it as a caller.
func (e *testEnv) register(t *testing.T, email string, role *models.Role) policy.Caller {
	t.Helper()

	view, err := e.auth.Register(context.Background(), RegisterParams{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  testPassword,
		RoleID:    role.ID,
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return policy.Caller{UserID: view.ID, RoleName: view.RoleName}
}

func (e *testEnv) createTask(t *testing.T, caller policy.Caller, title, assigneeID string) *models.TaskView {
	t.Helper()

	task, err := e.tasks.Create(context.Background(), caller, CreateTaskParams{
		Title:      title,
		StatusID:   e.todo.ID,
		AssigneeID: assigneeID,
	})
	if err != nil {
		t.Fatalf("failed to create task %q: %v", title, err)
	}
	return task
}
