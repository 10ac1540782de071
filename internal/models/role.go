package models

import "time"

const RoleAdmin = "Admin"

type Role struct {
	ID        string
	Name      string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
