// Package memory is an in-process repository driver for local runs and
// tests. It keeps every record in maps guarded by a single RWMutex.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type Storage struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	roles    map[string]*models.Role
	statuses map[string]*models.Status
	tasks    map[string]*models.Task
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[string]*models.User),
		roles:    make(map[string]*models.Role),
		statuses: make(map[string]*models.Status),
		tasks:    make(map[string]*models.Task),
	}
}

// Repositories returns the repository set backed by s.
func (s *Storage) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{s: s},
		Roles:    &roleRepository{s: s},
		Statuses: &statusRepository{s: s},
		Tasks:    &taskRepository{s: s},
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func visible(deleted bool, scope repository.DeletedScope) bool {
	return scope == repository.AnyDeleted || !deleted
}
