package policy

import (
	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

// OwnsTask reports whether t is assigned to c. Unassigned tasks have no
// owner.
func OwnsTask(c Caller, t *models.Task) bool {
	return t.AssigneeID != "" && t.AssigneeID == c.UserID
}

// CanAccessTask gates reading, updating, moving and deleting a single task.
func CanAccessTask(c Caller, t *models.Task) bool {
	return IsAdmin(c) || OwnsTask(c, t)
}

// EffectiveAssignee resolves the assignee of a new task. Only admins may
// choose one; everybody else is assigned their own task whatever they ask
// for.
func EffectiveAssignee(c Caller, requested string) string {
	if IsAdmin(c) && requested != "" {
		return requested
	}
	return c.UserID
}

// ScopeTasks narrows f to the tasks c may list.
func ScopeTasks(c Caller, f repository.TaskFilter) repository.TaskFilter {
	if !IsAdmin(c) {
		f.AssigneeID = c.UserID
	}
	return f
}

// RestrictTaskUpdate drops the fields c may not change. Non-admins cannot
// reassign, not even their own tasks.
func RestrictTaskUpdate(c Caller, u repository.TaskUpdate) repository.TaskUpdate {
	if !IsAdmin(c) {
		u.AssigneeID = nil
	}
	return u
}
