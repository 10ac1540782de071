package models

import "time"

type Status struct {
	ID        string
	Name      string
	Order     int
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Status) Summary() *StatusSummary {
	return &StatusSummary{ID: s.ID, Name: s.Name}
}
