package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string
	Title       string
	Description string
	StatusID    string
	// AssigneeID is empty when the task is not assigned to anyone.
	AssigneeID string
	DueDate    *time.Time
	Priority   Priority
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TaskView is a task joined with summaries of its status and assignee.
type TaskView struct {
	Task
	Status   *StatusSummary
	Assignee *UserSummary
}

type StatusSummary struct {
	ID   string
	Name string
}
