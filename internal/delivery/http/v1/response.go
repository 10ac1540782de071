package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/query"
)

// envelope wraps every response body.
type envelope struct {
	Status       bool                `json:"status"`
	ResponseCode int                 `json:"response_code"`
	Message      string              `json:"message"`
	Data         any                 `json:"data"`
	Pagination   *paginationResponse `json:"pagination,omitempty"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{
		Status:       true,
		ResponseCode: code,
		Message:      message,
		Data:         data,
	})
}

func respondOK(c *gin.Context, message string, data any) {
	respond(c, http.StatusOK, message, data)
}

type paginationResponse struct {
	Page         int   `json:"page"`
	PageSize     int   `json:"pageSize"`
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int64 `json:"totalPages"`
}

func newPaginationResponse(p query.Pagination) *paginationResponse {
	return &paginationResponse{
		Page:         p.Page,
		PageSize:     p.PageSize,
		TotalRecords: p.TotalRecords,
		TotalPages:   p.TotalPages,
	}
}

type userResponse struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Mobile         string  `json:"mobile,omitempty"`
	RoleID         *string `json:"role_id"`
	Role           *string `json:"role"`
	ProfilePicture *string `json:"profile_picture"`
}

func (h *handlerImpl) newUserResponse(u *models.UserView) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Mobile:         u.Mobile,
		RoleID:         nullable(u.RoleID),
		Role:           nullable(u.RoleName),
		ProfilePicture: nullable(h.assets.URL(u.ProfilePicture)),
	}
}

type roleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newRoleResponse(r *models.Role) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name}
}

type statusResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func newStatusResponse(s *models.Status) statusResponse {
	return statusResponse{ID: s.ID, Name: s.Name, Order: s.Order}
}

type taskResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	DueDate     *time.Time            `json:"dueDate"`
	Priority    models.Priority       `json:"priority"`
	Status      *taskStatusResponse   `json:"status"`
	Assignee    *taskAssigneeResponse `json:"assignee"`
	IsDeleted   bool                  `json:"isDeleted"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type taskStatusResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskAssigneeResponse struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profile_picture"`
}

func (h *handlerImpl) newTaskResponse(t *models.TaskView) taskResponse {
	res := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		IsDeleted:   t.IsDeleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Status != nil {
		res.Status = &taskStatusResponse{ID: t.Status.ID, Name: t.Status.Name}
	}
	if t.Assignee != nil {
		res.Assignee = &taskAssigneeResponse{
			ID:             t.Assignee.ID,
			FirstName:      t.Assignee.FirstName,
			LastName:       t.Assignee.LastName,
			Email:          t.Assignee.Email,
			ProfilePicture: nullable(h.assets.URL(t.Assignee.ProfilePicture)),
		}
	}
	return res
}

func (h *handlerImpl) newTaskResponses(tasks []*models.TaskView) []taskResponse {
	res := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, h.newTaskResponse(t))
	}
	return res
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
