package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type userServiceImpl struct {
	logger zerolog.Logger
	users  repository.UserRepository
	roles  repository.RoleRepository
}

func NewUserService(
	logger zerolog.Logger,
	users repository.UserRepository,
	roles repository.RoleRepository,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
		roles:  roles,
	}
}

func (s *userServiceImpl) List(ctx context.Context, caller policy.Caller) ([]*models.UserView, error) {
	filter := policy.ScopeUsers(caller, repository.UserFilter{Deleted: repository.NotDeleted})

	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}

	views, err := joinUsers(ctx, s.roles, users)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to join user roles")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(views)).
		Str("caller_id", caller.UserID).
		Msg("selected users")
	return views, nil
}

func (s *userServiceImpl) Get(ctx context.Context, caller policy.Caller, id string) (*models.UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsSelfOrAdmin(caller, user.ID) {
		s.logger.Error().
			Str("user_id", id).
			Str("caller_id", caller.UserID).
			Msg("caller may not read user")
		return nil, ErrForbidden
	}
	return s.view(ctx, user)
}

func (s *userServiceImpl) Update(ctx context.Context, caller policy.Caller, params UpdateUserParams) (*models.UserView, error) {
	update := repository.UserUpdate{
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		Email:          params.Email,
		Mobile:         params.Mobile,
		Password:       params.Password,
		RoleID:         params.RoleID,
		ProfilePicture: params.ProfilePicture,
	}
	if update.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.find(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if !policy.IsSelfOrAdmin(caller, user.ID) {
		s.logger.Error().
			Str("user_id", params.ID).
			Str("caller_id", caller.UserID).
			Msg("caller may not update user")
		return nil, ErrForbidden
	}

	update = policy.RestrictUserUpdate(caller, update)
	if update.ProfilePicture != nil && *update.ProfilePicture == user.ProfilePicture {
		update.ProfilePicture = nil
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		update.Email = &email
	}
	if update.Password != nil {
		hash, err := hashPassword(*update.Password)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to hash password")
			return nil, err
		}
		update.Password = &hash
	}
	if update.RoleID != nil {
		_, err = s.roles.FindByID(ctx, *update.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Error().
					Str("role_id", *update.RoleID).
					Msg("role not found")
				return nil, ErrRoleNotFound
			}

			s.logger.Error().
				Err(err).
				Str("role_id", *update.RoleID).
				Msg("failed to select role")
			return nil, err
		}
	}
	if update.Empty() {
		return s.view(ctx, user)
	}

	user, err = s.users.Update(ctx, user.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			s.logger.Error().
				Str("user_id", params.ID).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("user_id", params.ID).
			Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("caller_id", caller.UserID).
		Msg("updated user")
	return s.view(ctx, user)
}

func (s *userServiceImpl) Delete(ctx context.Context, caller policy.Caller, id string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !policy.IsSelfOrAdmin(caller, user.ID) {
		s.logger.Error().
			Str("user_id", id).
			Str("caller_id", caller.UserID).
			Msg("caller may not delete user")
		return ErrForbidden
	}

	err = s.users.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", id).
			Msg("failed to delete user")
		return err
	}

	s.logger.Info().
		Str("user_id", id).
		Str("caller_id", caller.UserID).
		Msg("deleted user")
	return nil
}

func (s *userServiceImpl) find(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("user_id", id).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", id).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) view(ctx context.Context, user *models.User) (*models.UserView, error) {
	views, err := joinUsers(ctx, s.roles, []*models.User{user})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to join user role")
		return nil, err
	}
	return views[0], nil
}
