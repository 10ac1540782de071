package v1

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHandleCreateStatus(t *testing.T) {
	s := newTestServer(t, false)
	_, adminToken := s.signUp("admin@example.com", s.adminRole)
	_, userToken := s.signUp("user@example.com", s.userRole)

	res := s.do(http.MethodPost, "/status/create", adminToken, gin.H{"name": "Done", "order": 3})
	if res.Code != http.StatusCreated {
		t.Fatalf("code = %d (%s), want 201", res.Code, res.Body.Message)
	}
	var done statusResponse
	s.decode(res, &done)
	if done.Order != 3 || done.Name != "Done" {
		t.Errorf("status = %+v", done)
	}

	res = s.do(http.MethodPost, "/status/create", userToken, gin.H{"name": "Review", "order": 4})
	if res.Code != http.StatusForbidden || res.Body.Message != "Only admin can create statuses" {
		t.Errorf("non-admin create: %d %q", res.Code, res.Body.Message)
	}

	conflicts := []gin.H{
		{"name": "done", "order": 9},
		{"name": "Review", "order": 3},
	}
	for _, body := range conflicts {
		if res = s.do(http.MethodPost, "/status/create", adminToken, body); res.Code != http.StatusConflict {
			t.Errorf("create %v: code = %d, want 409", body, res.Code)
		}
	}

	if res = s.do(http.MethodPost, "/status/create", adminToken, gin.H{"order": 5}); res.Code != http.StatusBadRequest {
		t.Errorf("missing name: code = %d", res.Code)
	}
}

func TestHandleStatuses(t *testing.T) {
	s := newTestServer(t, false)
	_, adminToken := s.signUp("admin@example.com", s.adminRole)
	_, userToken := s.signUp("user@example.com", s.userRole)

	res := s.do(http.MethodGet, "/status/getall", userToken, nil)
	if res.Code != http.StatusOK || string(res.Body.Data) != "[]" {
		t.Errorf("empty list: %d %s", res.Code, res.Body.Data)
	}

	done := s.createStatus(adminToken, "Done", 2)
	s.createStatus(adminToken, "To Do", 1)

	res = s.do(http.MethodGet, "/status/getall", userToken, nil)
	var list []statusResponse
	s.decode(res, &list)
	if len(list) != 2 || list[0].Name != "To Do" {
		t.Errorf("list = %+v", list)
	}

	res = s.do(http.MethodPut, "/status/update", adminToken, gin.H{"id": done.ID, "order": 1})
	if res.Code != http.StatusConflict {
		t.Errorf("order conflict: code = %d", res.Code)
	}
	res = s.do(http.MethodPut, "/status/update", adminToken, gin.H{"id": done.ID, "name": "Finished"})
	if res.Code != http.StatusOK {
		t.Errorf("rename: code = %d (%s)", res.Code, res.Body.Message)
	}

	if res = s.do(http.MethodDelete, "/status/delete", userToken, gin.H{"id": done.ID}); res.Code != http.StatusForbidden {
		t.Errorf("non-admin delete: code = %d", res.Code)
	}
	if res = s.do(http.MethodDelete, "/status/delete", adminToken, gin.H{"id": done.ID}); res.Code != http.StatusOK {
		t.Errorf("delete: code = %d", res.Code)
	}
	if res = s.do(http.MethodDelete, "/status/delete", adminToken, gin.H{"id": done.ID}); res.Code != http.StatusNotFound {
		t.Errorf("second delete: code = %d", res.Code)
	}
	if res = s.do(http.MethodGet, "/status/get/"+done.ID, userToken, nil); res.Code != http.StatusNotFound {
		t.Errorf("get deleted: code = %d", res.Code)
	}
}

func TestHandleRoles(t *testing.T) {
	s := newTestServer(t, false)
	_, adminToken := s.signUp("admin@example.com", s.adminRole)
	_, userToken := s.signUp("user@example.com", s.userRole)

	if res := s.do(http.MethodPost, "/role/create", userToken, gin.H{"name": "Lead"}); res.Code != http.StatusForbidden {
		t.Errorf("non-admin create: code = %d", res.Code)
	}
	if res := s.do(http.MethodPost, "/role/create", adminToken, gin.H{"name": "User"}); res.Code != http.StatusConflict {
		t.Errorf("duplicate: code = %d", res.Code)
	}

	res := s.do(http.MethodPost, "/role/create", adminToken, gin.H{"name": "Lead"})
	if res.Code != http.StatusCreated {
		t.Fatalf("create: code = %d (%s)", res.Code, res.Body.Message)
	}
	var lead roleResponse
	s.decode(res, &lead)

	res = s.do(http.MethodGet, "/role/get/"+lead.ID, userToken, nil)
	if res.Code != http.StatusOK {
		t.Errorf("get: code = %d", res.Code)
	}

	res = s.do(http.MethodPut, "/role/update", adminToken, gin.H{"id": lead.ID, "name": "Manager"})
	if res.Code != http.StatusOK {
		t.Errorf("update: code = %d (%s)", res.Code, res.Body.Message)
	}

	if res = s.do(http.MethodDelete, "/role/delete", adminToken, gin.H{"id": lead.ID}); res.Code != http.StatusOK {
		t.Errorf("delete: code = %d", res.Code)
	}
	if res = s.do(http.MethodDelete, "/role/delete", adminToken, gin.H{"id": lead.ID}); res.Code != http.StatusNotFound {
		t.Errorf("second delete: code = %d", res.Code)
	}
}
