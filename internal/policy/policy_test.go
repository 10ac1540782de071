package policy

import (
	"testing"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

var (
	admin = Caller{UserID: "admin", RoleName: models.RoleAdmin}
	alice = Caller{UserID: "alice", RoleName: "User"}
)

func TestCanAccessTask(t *testing.T) {
	tests := []struct {
		name     string
		caller   Caller
		assignee string
		want     bool
	}{
		{"admin foreign task", admin, "bob", true},
		{"admin unassigned task", admin, "", true},
		{"own task", alice, "alice", true},
		{"foreign task", alice, "bob", false},
		{"unassigned task", alice, "", false},
		{"empty caller on unassigned task", Caller{}, "", false},
		{"admin-like role name", Caller{UserID: "x", RoleName: "admin"}, "bob", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessTask(tt.caller, &models.Task{AssigneeID: tt.assignee})
			if got != tt.want {
				t.Errorf("CanAccessTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveAssignee(t *testing.T) {
	tests := []struct {
		name      string
		caller    Caller
		requested string
		want      string
	}{
		{"admin picks", admin, "bob", "bob"},
		{"admin defaults to self", admin, "", "admin"},
		{"user is forced to self", alice, "bob", "alice"},
		{"user defaults to self", alice, "", "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveAssignee(tt.caller, tt.requested); got != tt.want {
				t.Errorf("EffectiveAssignee() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScopes(t *testing.T) {
	f := ScopeTasks(alice, repository.TaskFilter{AssigneeID: "bob", Priority: models.PriorityHigh})
	if f.AssigneeID != "alice" || f.Priority != models.PriorityHigh {
		t.Errorf("ScopeTasks(user) = %+v", f)
	}
	if f = ScopeTasks(admin, repository.TaskFilter{AssigneeID: "bob"}); f.AssigneeID != "bob" {
		t.Errorf("ScopeTasks(admin) = %+v", f)
	}

	if u := ScopeUsers(alice, repository.UserFilter{}); u.OnlyID != "alice" {
		t.Errorf("ScopeUsers(user) = %+v", u)
	}
	if u := ScopeUsers(admin, repository.UserFilter{}); u.OnlyID != "" {
		t.Errorf("ScopeUsers(admin) = %+v", u)
	}
}

func TestRestrictUpdates(t *testing.T) {
	bob := "bob"
	title := "new"

	tu := RestrictTaskUpdate(alice, repository.TaskUpdate{AssigneeID: &bob, Title: &title})
	if tu.AssigneeID != nil || tu.Title == nil {
		t.Errorf("RestrictTaskUpdate(user) = %+v", tu)
	}
	if tu = RestrictTaskUpdate(admin, repository.TaskUpdate{AssigneeID: &bob}); tu.AssigneeID == nil {
		t.Error("RestrictTaskUpdate(admin) dropped the assignee")
	}

	role := "role"
	uu := RestrictUserUpdate(alice, repository.UserUpdate{RoleID: &role, FirstName: &title})
	if uu.RoleID != nil || uu.FirstName == nil {
		t.Errorf("RestrictUserUpdate(user) = %+v", uu)
	}
	if uu = RestrictUserUpdate(admin, repository.UserUpdate{RoleID: &role}); uu.RoleID == nil {
		t.Error("RestrictUserUpdate(admin) dropped the role")
	}
}

func TestIsSelfOrAdmin(t *testing.T) {
	if !IsSelfOrAdmin(alice, "alice") || IsSelfOrAdmin(alice, "bob") || !IsSelfOrAdmin(admin, "bob") {
		t.Error("unexpected IsSelfOrAdmin result")
	}
	if IsSelfOrAdmin(Caller{}, "") {
		t.Error("an empty caller owns nothing")
	}
}
