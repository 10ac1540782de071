package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type statusRepository struct {
	s *Storage
}

func (r *statusRepository) Create(_ context.Context, status *models.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflictLocked(status.Name, status.Order, "") {
		return repository.ErrDuplicate
	}

	status.ID = newID()
	stored := *status
	r.s.statuses[status.ID] = &stored
	return nil
}

func (r *statusRepository) FindByID(_ context.Context, id string) (*models.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.statuses[id]
	if !ok || st.IsDeleted {
		return nil, repository.ErrNotFound
	}
	found := *st
	return &found, nil
}

func (r *statusRepository) FindByName(_ context.Context, name string) (*models.Status, error) {
	return r.findFirst(func(st *models.Status) bool {
		return strings.EqualFold(st.Name, name)
	})
}

func (r *statusRepository) FindByOrder(_ context.Context, order int) (*models.Status, error) {
	return r.findFirst(func(st *models.Status) bool {
		return st.Order == order
	})
}

func (r *statusRepository) findFirst(match func(*models.Status) bool) (*models.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, st := range r.s.statuses {
		if !st.IsDeleted && match(st) {
			found := *st
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *statusRepository) FindByIDs(_ context.Context, ids []string, scope repository.DeletedScope) ([]*models.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	statuses := make([]*models.Status, 0, len(ids))
	for _, id := range ids {
		st, ok := r.s.statuses[id]
		if !ok || !visible(st.IsDeleted, scope) {
			continue
		}
		found := *st
		statuses = append(statuses, &found)
	}
	return statuses, nil
}

func (r *statusRepository) FindAll(_ context.Context) ([]*models.Status, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	statuses := make([]*models.Status, 0, len(r.s.statuses))
	for _, st := range r.s.statuses {
		if st.IsDeleted {
			continue
		}
		found := *st
		statuses = append(statuses, &found)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Order < statuses[j].Order
	})
	return statuses, nil
}

func (r *statusRepository) Update(_ context.Context, id string, update repository.StatusUpdate) (*models.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.statuses[id]
	if !ok || st.IsDeleted {
		return nil, repository.ErrNotFound
	}

	name, order := st.Name, st.Order
	setIfPresent(&name, update.Name)
	setIfPresent(&order, update.Order)
	if r.conflictLocked(name, order, id) {
		return nil, repository.ErrDuplicate
	}
	st.Name, st.Order = name, order
	st.UpdatedAt = time.Now()

	updated := *st
	return &updated, nil
}

func (r *statusRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.statuses[id]
	if !ok || st.IsDeleted {
		return repository.ErrNotFound
	}
	st.IsDeleted = true
	st.UpdatedAt = time.Now()
	return nil
}

// conflictLocked mirrors the unique indexes of the persistent drivers.
func (r *statusRepository) conflictLocked(name string, order int, exceptID string) bool {
	for _, st := range r.s.statuses {
		if st.ID == exceptID || st.IsDeleted {
			continue
		}
		if st.Order == order || strings.EqualFold(st.Name, name) {
			return true
		}
	}
	return false
}
