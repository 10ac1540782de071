package v1

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHandleRegister(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name    string
		body    gin.H
		code    int
		message string
	}{
		{
			name:    "missing first name",
			body:    gin.H{"last_name": "Doe", "email": "a@example.com", "password": "secret-pass"},
			code:    http.StatusBadRequest,
			message: "First_name is required",
		},
		{
			name:    "bad mobile",
			body:    gin.H{"first_name": "Jo", "last_name": "Doe", "email": "a@example.com", "password": "secret-pass", "mobile": "12345"},
			code:    http.StatusBadRequest,
			message: "Mobile number must be 10 digits",
		},
		{
			name:    "bad email",
			body:    gin.H{"first_name": "Jo", "last_name": "Doe", "email": "nope", "password": "secret-pass"},
			code:    http.StatusBadRequest,
			message: "Email must be a valid email",
		},
		{
			name: "ok",
			body: gin.H{"first_name": "Jo", "last_name": "Doe", "email": "a@example.com", "password": "secret-pass"},
			code: http.StatusCreated,
		},
		{
			name:    "duplicate email",
			body:    gin.H{"first_name": "Jo", "last_name": "Doe", "email": "A@example.com", "password": "secret-pass"},
			code:    http.StatusConflict,
			message: "Email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.do(http.MethodPost, "/user/register", "", tt.body)
			if res.Code != tt.code {
				t.Fatalf("code = %d (%s), want %d", res.Code, res.Body.Message, tt.code)
			}
			if tt.message != "" && res.Body.Message != tt.message {
				t.Errorf("message = %q, want %q", res.Body.Message, tt.message)
			}
			if res.Body.Status != (tt.code < 400) {
				t.Errorf("status = %v", res.Body.Status)
			}
		})
	}
}

func TestHandleRegister_ProfilePicture(t *testing.T) {
	s := newTestServer(t, false)

	png, _ := base64.StdEncoding.DecodeString(
		"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")
	res := s.do(http.MethodPost, "/user/register", "", gin.H{
		"first_name":      "Jo",
		"last_name":       "Doe",
		"email":           "pic@example.com",
		"password":        "secret-pass",
		"profile_picture": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("code = %d (%s)", res.Code, res.Body.Message)
	}

	var user userResponse
	s.decode(res, &user)
	if user.ProfilePicture == nil || !strings.HasPrefix(*user.ProfilePicture, "http://localhost:8080/uploads/users/") {
		t.Errorf("profile picture = %v", user.ProfilePicture)
	}
	if user.Role == nil || *user.Role != "User" {
		t.Errorf("role = %v, want the default role", user.Role)
	}
}

func TestHandleLogin(t *testing.T) {
	s := newTestServer(t, false)
	s.signUp("a@example.com", s.userRole)

	tests := []struct {
		name     string
		email    string
		password string
		code     int
	}{
		{"ok", "a@example.com", "secret-pass", http.StatusOK},
		{"unknown email", "b@example.com", "secret-pass", http.StatusNotFound},
		{"wrong password", "a@example.com", "wrong-pass", http.StatusUnauthorized},
		{"too short", "a@example.com", "x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.do(http.MethodPost, "/user/login", "", gin.H{"email": tt.email, "password": tt.password})
			if res.Code != tt.code {
				t.Errorf("code = %d (%s), want %d", res.Code, res.Body.Message, tt.code)
			}
		})
	}

	first := s.do(http.MethodPost, "/user/login", "", gin.H{"email": "a@example.com", "password": "secret-pass"})
	second := s.do(http.MethodPost, "/user/login", "", gin.H{"email": "a@example.com", "password": "secret-pass"})
	var a, b loginResponse
	s.decode(first, &a)
	s.decode(second, &b)
	if a.Token == "" || a.Token != b.Token {
		t.Errorf("expected the token to be reused, got %q and %q", a.Token, b.Token)
	}
}

func TestHandleAuthMiddleware(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.signUp("a@example.com", s.userRole)

	tests := []struct {
		name    string
		token   string
		code    int
		message string
	}{
		{"missing", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"garbage", "not-a-token", http.StatusUnauthorized, "Invalid or expired token."},
		{"ok", token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.do(http.MethodGet, "/user/getall", tt.token, nil)
			if res.Code != tt.code {
				t.Fatalf("code = %d (%s), want %d", res.Code, res.Body.Message, tt.code)
			}
			if tt.message != "" && res.Body.Message != tt.message {
				t.Errorf("message = %q, want %q", res.Body.Message, tt.message)
			}
		})
	}
}

func TestHandleUsers(t *testing.T) {
	s := newTestServer(t, false)
	_, adminToken := s.signUp("admin@example.com", s.adminRole)
	aliceID, aliceToken := s.signUp("alice@example.com", s.userRole)
	bobID, _ := s.signUp("bob@example.com", s.userRole)

	res := s.do(http.MethodGet, "/user/getall", aliceToken, nil)
	var users []userResponse
	s.decode(res, &users)
	if len(users) != 1 || users[0].ID != aliceID {
		t.Errorf("non-admin sees %+v", users)
	}

	res = s.do(http.MethodGet, "/user/getall", adminToken, nil)
	s.decode(res, &users)
	if len(users) != 3 {
		t.Errorf("admin sees %d users, want 3", len(users))
	}

	if res = s.do(http.MethodGet, "/user/get/"+bobID, aliceToken, nil); res.Code != http.StatusForbidden {
		t.Errorf("get foreign user: code = %d", res.Code)
	}
	if res = s.do(http.MethodGet, "/user/get/xyz", aliceToken, nil); res.Code != http.StatusBadRequest {
		t.Errorf("get bad id: code = %d", res.Code)
	}

	if res = s.do(http.MethodPut, "/user/update", aliceToken, gin.H{"id": aliceID}); res.Code != http.StatusBadRequest {
		t.Errorf("empty update: code = %d", res.Code)
	}
	res = s.do(http.MethodPut, "/user/update", aliceToken, gin.H{"id": aliceID, "last_name": "Smith", "role": s.adminRole.ID})
	if res.Code != http.StatusOK {
		t.Fatalf("update: code = %d (%s)", res.Code, res.Body.Message)
	}
	var updated userResponse
	s.decode(res, &updated)
	if updated.LastName != "Smith" || updated.Role == nil || *updated.Role != "User" {
		t.Errorf("updated = %+v", updated)
	}

	if res = s.do(http.MethodDelete, "/user/delete", aliceToken, gin.H{"id": bobID}); res.Code != http.StatusForbidden {
		t.Errorf("delete foreign user: code = %d", res.Code)
	}
	if res = s.do(http.MethodDelete, "/user/delete", adminToken, gin.H{"id": bobID}); res.Code != http.StatusOK {
		t.Errorf("admin delete: code = %d", res.Code)
	}
	if res = s.do(http.MethodDelete, "/user/delete", adminToken, gin.H{"id": bobID}); res.Code != http.StatusNotFound {
		t.Errorf("second delete: code = %d", res.Code)
	}

	// Deleting yourself revokes your session.
	if res = s.do(http.MethodDelete, "/user/delete", aliceToken, gin.H{"id": aliceID}); res.Code != http.StatusOK {
		t.Fatalf("self delete: code = %d", res.Code)
	}
	if res = s.do(http.MethodGet, "/user/getall", aliceToken, nil); res.Code != http.StatusForbidden {
		t.Errorf("deleted user request: code = %d", res.Code)
	}
}
