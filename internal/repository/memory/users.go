package memory

import (
	"context"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type userRepository struct {
	s *Storage
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}

	user.ID = newID()
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted {
		return nil, repository.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email && !u.IsDeleted {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) FindByIDs(_ context.Context, ids []string, scope repository.DeletedScope) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, ok := r.s.users[id]
		if !ok || !visible(u.IsDeleted, scope) {
			continue
		}
		found := *u
		users = append(users, &found)
	}
	return users, nil
}

func (r *userRepository) FindAll(_ context.Context, filter repository.UserFilter) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if !visible(u.IsDeleted, filter.Deleted) {
			continue
		}
		if filter.OnlyID != "" && u.ID != filter.OnlyID {
			continue
		}
		found := *u
		users = append(users, &found)
	}
	sortByCreation(users, func(u *models.User) (time.Time, string) { return u.CreatedAt, u.ID })
	return users, nil
}

func (r *userRepository) Update(_ context.Context, id string, update repository.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted {
		return nil, repository.ErrNotFound
	}
	if update.Email != nil && *update.Email != u.Email {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *update.Email {
				return nil, repository.ErrDuplicate
			}
		}
	}

	setIfPresent(&u.FirstName, update.FirstName)
	setIfPresent(&u.LastName, update.LastName)
	setIfPresent(&u.Email, update.Email)
	setIfPresent(&u.Mobile, update.Mobile)
	setIfPresent(&u.Password, update.Password)
	setIfPresent(&u.RoleID, update.RoleID)
	setIfPresent(&u.ProfilePicture, update.ProfilePicture)
	u.UpdatedAt = time.Now()

	updated := *u
	return &updated, nil
}

func (r *userRepository) SetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted {
		return repository.ErrNotFound
	}
	u.Token = token
	u.TokenExpiresAt = &expiresAt
	u.UpdatedAt = time.Now()
	return nil
}

func (r *userRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted {
		return repository.ErrNotFound
	}
	u.IsDeleted = true
	u.UpdatedAt = time.Now()
	return nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
