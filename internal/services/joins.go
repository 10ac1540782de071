package services

import (
	"context"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

// joinUsers attaches role names. Deleted roles still resolve.
func joinUsers(ctx context.Context, roles repository.RoleRepository, users []*models.User) ([]*models.UserView, error) {
	found, err := roles.FindByIDs(ctx, distinct(users, func(u *models.User) string { return u.RoleID }), repository.AnyDeleted)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(found))
	for _, r := range found {
		names[r.ID] = r.Name
	}

	views := make([]*models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, &models.UserView{User: *u, RoleName: names[u.RoleID]})
	}
	return views, nil
}

// joinTasks attaches status and assignee summaries. Deleted statuses and
// users still resolve.
func joinTasks(
	ctx context.Context,
	statuses repository.StatusRepository,
	users repository.UserRepository,
	tasks []*models.Task,
) ([]*models.TaskView, error) {
	foundStatuses, err := statuses.FindByIDs(ctx, distinct(tasks, func(t *models.Task) string { return t.StatusID }), repository.AnyDeleted)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]*models.StatusSummary, len(foundStatuses))
	for _, st := range foundStatuses {
		byStatus[st.ID] = st.Summary()
	}

	foundUsers, err := users.FindByIDs(ctx, distinct(tasks, func(t *models.Task) string { return t.AssigneeID }), repository.AnyDeleted)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]*models.UserSummary, len(foundUsers))
	for _, u := range foundUsers {
		byUser[u.ID] = u.Summary()
	}

	views := make([]*models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, &models.TaskView{
			Task:     *t,
			Status:   byStatus[t.StatusID],
			Assignee: byUser[t.AssigneeID],
		})
	}
	return views, nil
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	keys := make([]string, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
