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

type statusServiceImpl struct {
	logger   zerolog.Logger
	statuses repository.StatusRepository
	now      func() time.Time
}

func NewStatusService(
	logger zerolog.Logger,
	statuses repository.StatusRepository,
) StatusService {
	return &statusServiceImpl{
		logger:   logger,
		statuses: statuses,
		now:      time.Now,
	}
}

func (s *statusServiceImpl) Create(ctx context.Context, caller policy.Caller, name string, order int) (*models.Status, error) {
	if !policy.IsAdmin(caller) {
		s.logger.Error().
			Str("caller_id", caller.UserID).
			Msg("caller may not create statuses")
		return nil, ErrForbidden
	}

	name = strings.TrimSpace(name)
	err := s.ensureFree(ctx, name, order, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := &models.Status{
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.statuses.Create(ctx, status)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Error().
				Str("name", name).
				Int("order", order).
				Msg("status already exists")
			return nil, ErrStatusAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert status")
		return nil, err
	}

	s.logger.Info().
		Str("status_id", status.ID).
		Str("name", status.Name).
		Int("order", status.Order).
		Msg("created status")
	return status, nil
}

func (s *statusServiceImpl) Get(ctx context.Context, id string) (*models.Status, error) {
	status, err := s.statuses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("status_id", id).
				Msg("status not found")
			return nil, ErrStatusNotFound
		}

		s.logger.Error().
			Err(err).
			Str("status_id", id).
			Msg("failed to select status")
		return nil, err
	}
	return status, nil
}

func (s *statusServiceImpl) List(ctx context.Context) ([]*models.Status, error) {
	statuses, err := s.statuses.FindAll(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select statuses")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(statuses)).
		Msg("selected statuses")
	return statuses, nil
}

func (s *statusServiceImpl) Update(ctx context.Context, caller policy.Caller, params UpdateStatusParams) (*models.Status, error) {
	if !policy.IsAdmin(caller) {
		s.logger.Error().
			Str("caller_id", caller.UserID).
			Msg("caller may not update statuses")
		return nil, ErrForbidden
	}
	if params.Name == nil && params.Order == nil {
		return nil, ErrNoFieldsToUpdate
	}

	current, err := s.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	update := repository.StatusUpdate{Name: params.Name, Order: params.Order}
	name, order := current.Name, current.Order
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
		name = trimmed
	}
	if update.Order != nil {
		order = *update.Order
	}
	err = s.ensureFree(ctx, name, order, current.ID)
	if err != nil {
		return nil, err
	}

	status, err := s.statuses.Update(ctx, current.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrStatusNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrStatusAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("status_id", params.ID).
			Msg("failed to update status")
		return nil, err
	}

	s.logger.Info().
		Str("status_id", status.ID).
		Str("name", status.Name).
		Int("order", status.Order).
		Msg("updated status")
	return status, nil
}

func (s *statusServiceImpl) Delete(ctx context.Context, caller policy.Caller, id string) error {
	if !policy.IsAdmin(caller) {
		s.logger.Error().
			Str("caller_id", caller.UserID).
			Msg("caller may not delete statuses")
		return ErrForbidden
	}

	err := s.statuses.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("status_id", id).
				Msg("status not found")
			return ErrStatusNotFound
		}

		s.logger.Error().
			Err(err).
			Str("status_id", id).
			Msg("failed to delete status")
		return err
	}

	s.logger.Info().
		Str("status_id", id).
		Msg("deleted status")
	return nil
}

// ensureFree checks name and order against the statuses other than
// exceptID.
func (s *statusServiceImpl) ensureFree(ctx context.Context, name string, order int, exceptID string) error {
	found, err := s.statuses.FindByName(ctx, name)
	switch {
	case err == nil && found.ID != exceptID:
		s.logger.Error().
			Str("name", name).
			Msg("status name already taken")
		return ErrStatusAlreadyExists
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to select status by name")
		return err
	}

	found, err = s.statuses.FindByOrder(ctx, order)
	switch {
	case err == nil && found.ID != exceptID:
		s.logger.Error().
			Int("order", order).
			Msg("status order already taken")
		return ErrStatusOrderTaken
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.logger.Error().
			Err(err).
			Int("order", order).
			Msg("failed to select status by order")
		return err
	}
	return nil
}
