package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/query"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type taskServiceImpl struct {
	logger   zerolog.Logger
	tasks    repository.TaskRepository
	statuses repository.StatusRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	tasks repository.TaskRepository,
	statuses repository.StatusRepository,
	users repository.UserRepository,
) TaskService {
	return &taskServiceImpl{
		logger:   logger,
		tasks:    tasks,
		statuses: statuses,
		users:    users,
		now:      time.Now,
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, caller policy.Caller, params CreateTaskParams) (*models.TaskView, error) {
	err := s.ensureStatus(ctx, params.StatusID)
	if err != nil {
		return nil, err
	}
	if policy.IsAdmin(caller) && params.AssigneeID != "" {
		err = s.ensureAssignee(ctx, params.AssigneeID)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	task := &models.Task{
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		StatusID:    params.StatusID,
		AssigneeID:  policy.EffectiveAssignee(caller, params.AssigneeID),
		DueDate:     params.DueDate,
		Priority:    params.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	err = s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("assignee_id", task.AssigneeID).
		Str("caller_id", caller.UserID).
		Msg("created task")
	return s.view(ctx, task)
}

func (s *taskServiceImpl) Get(ctx context.Context, caller policy.Caller, id string) (*models.TaskView, error) {
	task, err := s.findAccessible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, task)
}

func (s *taskServiceImpl) List(ctx context.Context, caller policy.Caller) ([]*models.TaskView, error) {
	filter := policy.ScopeTasks(caller, repository.TaskFilter{Deleted: repository.NotDeleted})
	return s.find(ctx, repository.TaskQuery{Filter: filter, Sort: repository.DefaultTaskSort})
}

func (s *taskServiceImpl) Board(ctx context.Context) ([]*models.TaskView, error) {
	filter := repository.TaskFilter{Deleted: repository.NotDeleted}
	return s.find(ctx, repository.TaskQuery{Filter: filter, Sort: repository.DefaultTaskSort})
}

func (s *taskServiceImpl) Paginate(ctx context.Context, caller policy.Caller, params query.Params) (*TaskPage, error) {
	page, err := query.BuildTaskPage(caller, params)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("rejected pagination params")
		return nil, err
	}
	if page.Empty {
		return &TaskPage{
			Tasks:      []*models.TaskView{},
			Pagination: query.NewPagination(page.Page, page.PageSize, 0),
		}, nil
	}

	total, err := s.tasks.Count(ctx, page.Query.Filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return nil, err
	}

	views, err := s.find(ctx, page.Query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("page", page.Page).
		Int("count", len(views)).
		Int64("total", total).
		Str("caller_id", caller.UserID).
		Msg("selected task page")
	return &TaskPage{
		Tasks:      views,
		Pagination: query.NewPagination(page.Page, page.PageSize, total),
	}, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, caller policy.Caller, params UpdateTaskParams) (*models.TaskView, error) {
	update := repository.TaskUpdate{
		Title:       params.Title,
		Description: params.Description,
		StatusID:    params.StatusID,
		AssigneeID:  params.AssigneeID,
		DueDate:     params.DueDate,
		Priority:    params.Priority,
	}
	if update.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	task, err := s.findAccessible(ctx, caller, params.ID)
	if err != nil {
		return nil, err
	}

	if update.StatusID != nil && *update.StatusID != task.StatusID {
		err = s.ensureStatus(ctx, *update.StatusID)
		if err != nil {
			return nil, err
		}
	}
	update = policy.RestrictTaskUpdate(caller, update)
	if update.AssigneeID != nil && *update.AssigneeID != task.AssigneeID {
		err = s.ensureAssignee(ctx, *update.AssigneeID)
		if err != nil {
			return nil, err
		}
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		update.Title = &title
	}
	if update.Empty() {
		return s.view(ctx, task)
	}

	return s.apply(ctx, caller, task.ID, update)
}

func (s *taskServiceImpl) Move(ctx context.Context, caller policy.Caller, id, statusID string) (*models.TaskView, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.ensureStatus(ctx, statusID)
	if err != nil {
		return nil, err
	}

	if !policy.CanAccessTask(caller, task) {
		s.logger.Error().
			Str("task_id", id).
			Str("caller_id", caller.UserID).
			Msg("caller may not move task")
		return nil, ErrForbidden
	}

	return s.apply(ctx, caller, task.ID, repository.TaskUpdate{StatusID: &statusID})
}

func (s *taskServiceImpl) Delete(ctx context.Context, caller policy.Caller, id string) error {
	task, err := s.findAccessible(ctx, caller, id)
	if err != nil {
		return err
	}

	err = s.tasks.SoftDelete(ctx, task.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", id).
		Str("caller_id", caller.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) apply(ctx context.Context, caller policy.Caller, id string, update repository.TaskUpdate) (*models.TaskView, error) {
	task, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status_id", task.StatusID).
		Str("caller_id", caller.UserID).
		Msg("updated task")
	return s.view(ctx, task)
}

func (s *taskServiceImpl) find(ctx context.Context, q repository.TaskQuery) ([]*models.TaskView, error) {
	tasks, err := s.tasks.Find(ctx, q)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}

	views, err := joinTasks(ctx, s.statuses, s.users, tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to join tasks")
		return nil, err
	}
	return views, nil
}

func (s *taskServiceImpl) findTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) findAccessible(ctx context.Context, caller policy.Caller, id string) (*models.Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(caller, task) {
		s.logger.Error().
			Str("task_id", id).
			Str("caller_id", caller.UserID).
			Msg("caller may not access task")
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *taskServiceImpl) ensureStatus(ctx context.Context, id string) error {
	_, err := s.statuses.FindByID(ctx, id)
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
			Msg("failed to select status")
		return err
	}
	return nil
}

func (s *taskServiceImpl) ensureAssignee(ctx context.Context, id string) error {
	_, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("assignee_id", id).
				Msg("assignee not found")
			return ErrInvalidAssignee
		}

		s.logger.Error().
			Err(err).
			Str("assignee_id", id).
			Msg("failed to select assignee")
		return err
	}
	return nil
}

func (s *taskServiceImpl) view(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views, err := joinTasks(ctx, s.statuses, s.users, []*models.Task{task})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to join task")
		return nil, err
	}
	return views[0], nil
}
