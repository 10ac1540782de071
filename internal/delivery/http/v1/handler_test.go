package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/assets"
	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/repository"
	"github.com/adanyl0v/go-taskboard/internal/repository/memory"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	repos  repository.Repositories

	adminRole *models.Role
	userRole  *models.Role
}

func newTestServer(t *testing.T, publicBoard bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	repos := memory.NewStorage().Repositories()
	ctx := context.Background()

	adminRole := &models.Role{Name: models.RoleAdmin}
	userRole := &models.Role{Name: "User"}
	for _, r := range []*models.Role{adminRole, userRole} {
		if err := repos.Roles.Create(ctx, r); err != nil {
			t.Fatalf("failed to create role: %v", err)
		}
	}

	h := New(
		logger,
		services.NewAuthService(logger, repos.Users, repos.Roles, "test", []byte("secret"), time.Hour, userRole.ID),
		services.NewUserService(logger, repos.Users, repos.Roles),
		services.NewRoleService(logger, repos.Roles),
		services.NewStatusService(logger, repos.Statuses),
		services.NewTaskService(logger, repos.Tasks, repos.Statuses, repos.Users),
		assets.NewStore(t.TempDir(), "http://localhost:8080"),
	)

	router := gin.New()
	Register(router, h, publicBoard)
	return &testServer{
		t:         t,
		router:    router,
		repos:     repos,
		adminRole: adminRole,
		userRole:  userRole,
	}
}

type testResponse struct {
	Code int
	Body struct {
		Status       bool               `json:"status"`
		ResponseCode int                `json:"response_code"`
		Message      string             `json:"message"`
		Data         json.RawMessage    `json:"data"`
		Pagination   paginationResponse `json:"pagination"`
	}
}

func (s *testServer) do(method, path, token string, body any) testResponse {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	res := testResponse{Code: w.Code}
	if err := json.Unmarshal(w.Body.Bytes(), &res.Body); err != nil {
		s.t.Fatalf("%s %s: bad response body %q: %v", method, path, w.Body.String(), err)
	}
	if res.Body.ResponseCode != w.Code {
		s.t.Errorf("%s %s: response_code %d differs from status %d", method, path, res.Body.ResponseCode, w.Code)
	}
	return res
}

func (s *testServer) decode(res testResponse, v any) {
	s.t.Helper()

	if err := json.Unmarshal(res.Body.Data, v); err != nil {
		s.t.Fatalf("bad data %s: %v", res.Body.Data, err)
	}
}

// signUp registers a user with the given role and returns its id and
// token.
func (s *testServer) signUp(email string, role *models.Role) (string, string) {
	s.t.Helper()

	res := s.do(http.MethodPost, "/user/register", "", gin.H{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "secret-pass",
		"role":       role.ID,
	})
	if res.Code != http.StatusCreated {
		s.t.Fatalf("register %s: %d %s", email, res.Code, res.Body.Message)
	}
	var user userResponse
	s.decode(res, &user)

	res = s.do(http.MethodPost, "/user/login", "", gin.H{"email": email, "password": "secret-pass"})
	if res.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, res.Code, res.Body.Message)
	}
	var login struct {
		Token string `json:"token"`
	}
	s.decode(res, &login)
	return user.ID, login.Token
}

func (s *testServer) createStatus(token, name string, order int) statusResponse {
	s.t.Helper()

	res := s.do(http.MethodPost, "/status/create", token, gin.H{"name": name, "order": order})
	if res.Code != http.StatusCreated {
		s.t.Fatalf("create status: %d %s", res.Code, res.Body.Message)
	}
	var st statusResponse
	s.decode(res, &st)
	return st
}

func (s *testServer) createTask(token string, body gin.H) taskResponse {
	s.t.Helper()

	res := s.do(http.MethodPost, "/task/create", token, body)
	if res.Code != http.StatusCreated {
		s.t.Fatalf("create task: %d %s", res.Code, res.Body.Message)
	}
	var task taskResponse
	s.decode(res, &task)
	return task
}
