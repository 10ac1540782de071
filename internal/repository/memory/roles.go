package memory

import (
	"context"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type roleRepository struct {
	s *Storage
}

func (r *roleRepository) Create(_ context.Context, role *models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTakenLocked(role.Name, "") {
		return repository.ErrDuplicate
	}

	role.ID = newID()
	stored := *role
	r.s.roles[role.ID] = &stored
	return nil
}

func (r *roleRepository) FindByID(_ context.Context, id string) (*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok || role.IsDeleted {
		return nil, repository.ErrNotFound
	}
	found := *role
	return &found, nil
}

func (r *roleRepository) FindByName(_ context.Context, name string) (*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role.Name == name && !role.IsDeleted {
			found := *role
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *roleRepository) FindByIDs(_ context.Context, ids []string, scope repository.DeletedScope) ([]*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	roles := make([]*models.Role, 0, len(ids))
	for _, id := range ids {
		role, ok := r.s.roles[id]
		if !ok || !visible(role.IsDeleted, scope) {
			continue
		}
		found := *role
		roles = append(roles, &found)
	}
	return roles, nil
}

func (r *roleRepository) FindAll(_ context.Context) ([]*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	roles := make([]*models.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		if role.IsDeleted {
			continue
		}
		found := *role
		roles = append(roles, &found)
	}
	sortByCreation(roles, func(r *models.Role) (time.Time, string) { return r.CreatedAt, r.ID })
	return roles, nil
}

func (r *roleRepository) Update(_ context.Context, id, name string) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	role, ok := r.s.roles[id]
	if !ok || role.IsDeleted {
		return nil, repository.ErrNotFound
	}
	if r.nameTakenLocked(name, id) {
		return nil, repository.ErrDuplicate
	}
	role.Name = name
	role.UpdatedAt = time.Now()

	updated := *role
	return &updated, nil
}

func (r *roleRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	role, ok := r.s.roles[id]
	if !ok || role.IsDeleted {
		return repository.ErrNotFound
	}
	role.IsDeleted = true
	role.UpdatedAt = time.Now()
	return nil
}

func (r *roleRepository) nameTakenLocked(name, exceptID string) bool {
	for _, role := range r.s.roles {
		if role.ID != exceptID && !role.IsDeleted && role.Name == name {
			return true
		}
	}
	return false
}
