// Package policy holds the authorization rules of the board.
//
// Every decision reduces to IsAdmin plus an ownership comparison between
// the caller and the user a resource belongs to. Roles other than Admin
// carry no privileges.
package policy

import "github.com/adanyl0v/go-taskboard/internal/models"

// Caller is the authenticated identity behind a request.
type Caller struct {
	UserID   string
	RoleName string
}

func IsAdmin(c Caller) bool {
	return c.RoleName == models.RoleAdmin
}

// IsSelfOrAdmin reports whether c may act on the resource owned by userID.
func IsSelfOrAdmin(c Caller, userID string) bool {
	return IsAdmin(c) || (userID != "" && userID == c.UserID)
}
