package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type roleServiceImpl struct {
	logger zerolog.Logger
	roles  repository.RoleRepository
	now    func() time.Time
}

func NewRoleService(
	logger zerolog.Logger,
	roles repository.RoleRepository,
) RoleService {
	return &roleServiceImpl{
		logger: logger,
		roles:  roles,
		now:    time.Now,
	}
}

func (s *roleServiceImpl) Create(ctx context.Context, caller policy.Caller, name string) (*models.Role, error) {
	if !policy.IsAdmin(caller) {
		s.logger.Error().
			Str("caller_id", caller.UserID).
			Msg("caller may not create roles")
		return nil, ErrForbidden
	}

	name = strings.TrimSpace(name)
	err := s.ensureNameFree(ctx, name, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	role := &models.Role{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.roles.Create(ctx, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Error().
				Str("name", name).
				Msg("role already exists")
			return nil, ErrRoleAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert role")
		return nil, err
	}

	s.logger.Info().
		Str("role_id", role.ID).
		Str("name", role.Name).
		Msg("created role")
	return role, nil
}

func (s *roleServiceImpl) Get(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("role_id", id).
				Msg("role not found")
			return nil, ErrRoleNotFound
		}

		s.logger.Error().
			Err(err).
			Str("role_id", id).
			Msg("failed to select role")
		return nil, err
	}
	return role, nil
}

func (s *roleServiceImpl) List(ctx context.Context) ([]*models.Role, error) {
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select roles")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(roles)).
		Msg("selected roles")
	return roles, nil
}

func (s *roleServiceImpl) Update(ctx context.Context, caller policy.Caller, id, name string) (*models.Role, error) {
	if !policy.IsAdmin(caller) {
		s.logger.Error().
			Str("caller_id", caller.UserID).
			Msg("caller may not update roles")
		return nil, ErrForbidden
	}

	_, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	err = s.ensureNameFree(ctx, name, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.Update(ctx, id, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoleNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrRoleAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("role_id", id).
			Msg("failed to update role")
		return nil, err
	}

	s.logger.Info().
		Str("role_id", role.ID).
		Str("name", role.Name).
		Msg("updated role")
	return role, nil
}

func (s *roleServiceImpl) Delete(ctx context.Context, caller policy.Caller, id string) error {
	if !policy.IsAdmin(caller) {
		s.logger.Error().
			Str("caller_id", caller.UserID).
			Msg("caller may not delete roles")
		return ErrForbidden
	}

	err := s.roles.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("role_id", id).
				Msg("role not found")
			return ErrRoleNotFound
		}

		s.logger.Error().
			Err(err).
			Str("role_id", id).
			Msg("failed to delete role")
		return err
	}

	s.logger.Info().
		Str("role_id", id).
		Msg("deleted role")
	return nil
}

func (s *roleServiceImpl) ensureNameFree(ctx context.Context, name, exceptID string) error {
	found, err := s.roles.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to select role by name")
		return err
	case found.ID != exceptID:
		s.logger.Error().
			Str("name", name).
			Msg("role already exists")
		return ErrRoleAlreadyExists
	}
	return nil
}
