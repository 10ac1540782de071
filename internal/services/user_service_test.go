package services

import (
	"context"
	"errors"
	"testing"
)

func TestUserService_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)

	list, err := env.users.List(ctx, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != alice.UserID {
		t.Errorf("non-admin listing = %+v, want only the caller", list)
	}

	list, err = env.users.List(ctx, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("admin got %d users, want 3", len(list))
	}

	if _, err = env.users.Get(ctx, alice, bob.UserID); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	view, err := env.users.Get(ctx, admin, bob.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.RoleName != "User" {
		t.Errorf("role name = %q, want User", view.RoleName)
	}
	if _, err = env.users.Get(ctx, admin, "64b7f0c2a1b2c3d4e5f6ffff"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUserService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)

	name := "Alice"
	view, err := env.users.Update(ctx, alice, UpdateUserParams{
		ID:        alice.UserID,
		FirstName: &name,
		RoleID:    &env.adminRole.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.FirstName != "Alice" {
		t.Errorf("first name = %q", view.FirstName)
	}
	if view.RoleName != "User" {
		t.Errorf("non-admin promoted itself to %q", view.RoleName)
	}

	view, err = env.users.Update(ctx, admin, UpdateUserParams{ID: alice.UserID, RoleID: &env.adminRole.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.RoleName != "Admin" {
		t.Errorf("admin role change not applied: %q", view.RoleName)
	}

	if _, err = env.users.Update(ctx, bob, UpdateUserParams{ID: alice.UserID, FirstName: &name}); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if _, err = env.users.Update(ctx, bob, UpdateUserParams{ID: bob.UserID}); !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("err = %v, want ErrNoFieldsToUpdate", err)
	}

	taken := "ALICE@example.com"
	if _, err = env.users.Update(ctx, bob, UpdateUserParams{ID: bob.UserID, Email: &taken}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("err = %v, want ErrUserAlreadyExists", err)
	}

	password := "brand-new-pass"
	if _, err = env.users.Update(ctx, bob, UpdateUserParams{ID: bob.UserID, Password: &password}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err = env.auth.Authenticate(ctx, "bob@example.com", password); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.register(t, "admin@example.com", env.adminRole)
	alice := env.register(t, "alice@example.com", env.userRole)
	bob := env.register(t, "bob@example.com", env.userRole)

	if err := env.users.Delete(ctx, alice, bob.UserID); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if err := env.users.Delete(ctx, admin, bob.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.users.Delete(ctx, admin, bob.UserID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete: err = %v, want ErrUserNotFound", err)
	}
	if _, err := env.auth.Login(ctx, LoginParams{Email: "bob@example.com", Password: testPassword}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("deleted user logged in: err = %v", err)
	}
}
