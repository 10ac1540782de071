// Package repository declares the storage contracts used by the services.
//
// Every read method excludes soft-deleted records unless it takes a
// DeletedScope, in which case the scope decides. Implementations live in
// the mongo, postgres and memory subpackages.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// DeletedScope selects records by their soft-delete flag.
type DeletedScope int

const (
	// NotDeleted is the default scope of every query.
	NotDeleted DeletedScope = iota
	// AnyDeleted disables the soft-delete predicate. Joins use it so that
	// references to deleted records still resolve.
	AnyDeleted
)

type Repositories struct {
	Users    UserRepository
	Roles    RoleRepository
	Statuses StatusRepository
	Tasks    TaskRepository
}

type UserRepository interface {
	// Create inserts the user and sets its ID. It returns ErrDuplicate if
	// the email is already taken.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string, scope DeletedScope) ([]*models.User, error)
	// FindAll returns non-deleted users, or only the one with OnlyID when
	// it is set.
	FindAll(ctx context.Context, filter UserFilter) ([]*models.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*models.User, error)
	SetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	SoftDelete(ctx context.Context, id string) error
}

type UserFilter struct {
	Deleted DeletedScope
	OnlyID  string
}

type UserUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Mobile         *string
	Password       *string
	RoleID         *string
	ProfilePicture *string
}

func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.Mobile == nil && u.Password == nil && u.RoleID == nil &&
		u.ProfilePicture == nil
}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	FindByIDs(ctx context.Context, ids []string, scope DeletedScope) ([]*models.Role, error)
	FindAll(ctx context.Context) ([]*models.Role, error)
	Update(ctx context.Context, id, name string) (*models.Role, error)
	SoftDelete(ctx context.Context, id string) error
}

type StatusRepository interface {
	Create(ctx context.Context, status *models.Status) error
	FindByID(ctx context.Context, id string) (*models.Status, error)
	// FindByName matches the name case-insensitively.
	FindByName(ctx context.Context, name string) (*models.Status, error)
	FindByOrder(ctx context.Context, order int) (*models.Status, error)
	FindByIDs(ctx context.Context, ids []string, scope DeletedScope) ([]*models.Status, error)
	// FindAll returns non-deleted statuses sorted by order.
	FindAll(ctx context.Context) ([]*models.Status, error)
	Update(ctx context.Context, id string, update StatusUpdate) (*models.Status, error)
	SoftDelete(ctx context.Context, id string) error
}

type StatusUpdate struct {
	Name  *string
	Order *int
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	Find(ctx context.Context, query TaskQuery) ([]*models.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	Update(ctx context.Context, id string, update TaskUpdate) (*models.Task, error)
	SoftDelete(ctx context.Context, id string) error
}

// TaskFilter is a conjunction of predicates. Zero-valued fields match
// everything, except Deleted whose zero value is NotDeleted.
type TaskFilter struct {
	Deleted    DeletedScope
	AssigneeID string
	StatusID   string
	Priority   models.Priority
	DueFrom    *time.Time
	DueTo      *time.Time
	// Search is a literal, case-insensitive substring matched against
	// title, description and priority.
	Search string
}

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortTitle     SortField = "title"
	SortPriority  SortField = "priority"
	SortDueDate   SortField = "due_date"
)

type SortOrder struct {
	Field      SortField
	Descending bool
}

// DefaultTaskSort lists the newest tasks first.
var DefaultTaskSort = []SortOrder{{Field: SortCreatedAt, Descending: true}}

type TaskQuery struct {
	Filter TaskFilter
	Sort   []SortOrder
	Skip   int64
	// Limit of zero means no limit.
	Limit int64
}

type TaskUpdate struct {
	Title       *string
	Description *string
	StatusID    *string
	AssigneeID  *string
	DueDate     *time.Time
	Priority    *models.Priority
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.StatusID == nil &&
		u.AssigneeID == nil && u.DueDate == nil && u.Priority == nil
}
