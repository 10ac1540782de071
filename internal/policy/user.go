package policy

import "github.com/adanyl0v/go-taskboard/internal/repository"

// ScopeUsers narrows f to the users c may list: everyone for admins, only
// themselves otherwise.
func ScopeUsers(c Caller, f repository.UserFilter) repository.UserFilter {
	if !IsAdmin(c) {
		f.OnlyID = c.UserID
	}
	return f
}

// RestrictUserUpdate drops the role change unless c is an admin.
func RestrictUserUpdate(c Caller, u repository.UserUpdate) repository.UserUpdate {
	if !IsAdmin(c) {
		u.RoleID = nil
	}
	return u
}
