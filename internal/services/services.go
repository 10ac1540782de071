package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/query"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrSessionRevoked       = errors.New("session revoked")
	ErrForbidden            = errors.New("forbidden")
	ErrRoleNotFound         = errors.New("role not found")
	ErrRoleAlreadyExists    = errors.New("role already exists")
	ErrStatusNotFound       = errors.New("status not found")
	ErrStatusAlreadyExists  = errors.New("status already exists")
	ErrStatusOrderTaken     = errors.New("status order already taken")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidAssignee      = errors.New("assignee not found")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
)

type AuthService interface {
	// Register creates a user with the given params.
	//
	// The email is trimmed and lower-cased, the password is hashed and the
	// role defaults to the configured default role.
	//
	// It returns ErrUserAlreadyExists if the email is taken or
	// ErrRoleNotFound if the role doesn't exist.
	Register(ctx context.Context, params RegisterParams) (*models.UserView, error)

	// Login authenticates the user by email and password and returns its
	// session token. A token that has not expired yet is returned as is.
	//
	// It returns ErrUserNotFound if the user with the given email doesn't
	// exist or ErrUserPasswordMismatch if the password doesn't match.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Authenticate returns the non-deleted user with the given email if
	// the password matches its hash.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// IssueOrReuseToken returns the user's stored token while it is
	// valid. Otherwise it signs a new one and stores it on the user.
	IssueOrReuseToken(ctx context.Context, user *models.User) (string, time.Time, error)

	// ParseJWTToken verifies the signature, issuer and lifetime of the
	// token. It returns ErrTokenExpired or ErrTokenInvalid.
	ParseJWTToken(token string) (*Claims, error)

	// AuthenticateRequest resolves the caller behind a bearer token.
	//
	// Besides the ParseJWTToken errors, it returns ErrSessionRevoked if the
	// user is gone or the token is no longer the one stored for it.
	AuthenticateRequest(ctx context.Context, token string) (policy.Caller, error)
}

type UserService interface {
	// List returns every user to admins and only the caller otherwise.
	List(ctx context.Context, caller policy.Caller) ([]*models.UserView, error)

	// Get returns ErrUserNotFound or ErrForbidden if a non-admin asks
	// for someone else.
	Get(ctx context.Context, caller policy.Caller, id string) (*models.UserView, error)

	// Update applies the present fields. The role is only changed by
	// admins.
	//
	// It returns ErrNoFieldsToUpdate, ErrUserNotFound, ErrForbidden,
	// ErrRoleNotFound or ErrUserAlreadyExists.
	Update(ctx context.Context, caller policy.Caller, params UpdateUserParams) (*models.UserView, error)

	// Delete soft-deletes the user. It returns ErrUserNotFound or
	// ErrForbidden.
	Delete(ctx context.Context, caller policy.Caller, id string) error
}

type RoleService interface {
	// Create returns ErrForbidden for non-admins or ErrRoleAlreadyExists.
	Create(ctx context.Context, caller policy.Caller, name string) (*models.Role, error)
	Get(ctx context.Context, id string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
	// Update returns ErrForbidden, ErrRoleNotFound or ErrRoleAlreadyExists.
	Update(ctx context.Context, caller policy.Caller, id, name string) (*models.Role, error)
	// Delete returns ErrForbidden or ErrRoleNotFound.
	Delete(ctx context.Context, caller policy.Caller, id string) error
}

type StatusService interface {
	// Create returns ErrForbidden for non-admins, ErrStatusAlreadyExists
	// if the name is taken ignoring case or ErrStatusOrderTaken.
	Create(ctx context.Context, caller policy.Caller, name string, order int) (*models.Status, error)
	Get(ctx context.Context, id string) (*models.Status, error)
	// List returns the statuses sorted by order.
	List(ctx context.Context) ([]*models.Status, error)
	// Update checks conflicts against the other statuses only.
	Update(ctx context.Context, caller policy.Caller, params UpdateStatusParams) (*models.Status, error)
	Delete(ctx context.Context, caller policy.Caller, id string) error
}

type TaskService interface {
	// Create persists a task. Non-admins are always assigned their own
	// task.
	//
	// It returns ErrStatusNotFound or ErrInvalidAssignee.
	Create(ctx context.Context, caller policy.Caller, params CreateTaskParams) (*models.TaskView, error)

	// Get returns ErrTaskNotFound or ErrForbidden.
	Get(ctx context.Context, caller policy.Caller, id string) (*models.TaskView, error)

	// List returns the tasks the caller may see, newest first.
	List(ctx context.Context, caller policy.Caller) ([]*models.TaskView, error)

	// Paginate returns one page of the tasks the caller may see. It
	// returns an error wrapping query.ErrInvalidParams for a bad filter
	// or sort.
	Paginate(ctx context.Context, caller policy.Caller, params query.Params) (*TaskPage, error)

	// Board lists every non-deleted task regardless of the caller.
	Board(ctx context.Context) ([]*models.TaskView, error)

	// Update applies the present fields. Reassignment is silently dropped
	// for non-admins.
	//
	// It returns ErrNoFieldsToUpdate, ErrTaskNotFound, ErrForbidden,
	// ErrStatusNotFound or ErrInvalidAssignee.
	Update(ctx context.Context, caller policy.Caller, params UpdateTaskParams) (*models.TaskView, error)

	// Move changes the status of the task. It returns ErrTaskNotFound,
	// ErrStatusNotFound or ErrForbidden.
	Move(ctx context.Context, caller policy.Caller, id, statusID string) (*models.TaskView, error)

	// Delete soft-deletes the task. It returns ErrTaskNotFound or
	// ErrForbidden.
	Delete(ctx context.Context, caller policy.Caller, id string) error
}

// Claims are the session token claims.
type Claims struct {
	UserID string `json:"id"`
	RoleID string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterParams struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Mobile         string
	RoleID         string
	ProfilePicture string
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.UserView
}

type UpdateUserParams struct {
	ID             string
	FirstName      *string
	LastName       *string
	Email          *string
	Mobile         *string
	Password       *string
	RoleID         *string
	ProfilePicture *string
}

type UpdateStatusParams struct {
	ID    string
	Name  *string
	Order *int
}

type CreateTaskParams struct {
	Title       string
	Description string
	StatusID    string
	AssigneeID  string
	DueDate     *time.Time
	Priority    models.Priority
}

type UpdateTaskParams struct {
	ID          string
	Title       *string
	Description *string
	StatusID    *string
	AssigneeID  *string
	DueDate     *time.Time
	Priority    *models.Priority
}

type TaskPage struct {
	Tasks      []*models.TaskView
	Pagination query.Pagination
}
