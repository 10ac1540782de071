package models

import "time"

type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Mobile         string
	Password       string
	RoleID         string
	ProfilePicture string
	Token          string
	TokenExpiresAt *time.Time
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasValidToken reports whether the user holds a session token that is
// still valid at the given moment.
func (u *User) HasValidToken(now time.Time) bool {
	return u.Token != "" && u.TokenExpiresAt != nil && u.TokenExpiresAt.After(now)
}

// UserView is a user joined with the name of its role.
type UserView struct {
	User
	RoleName string
}

type UserSummary struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	ProfilePicture string
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}
