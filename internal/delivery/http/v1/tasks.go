package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/query"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

var errDueDate = errors.New("dueDate must be a valid date")

// dueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type dueDate struct {
	time.Time
}

func (d *dueDate) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}
	return errDueDate
}

func (d *dueDate) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type createTaskRequest struct {
	Title       string   `json:"title" binding:"required,notblank,max=200"`
	Description string   `json:"description"`
	Status      string   `json:"status" binding:"required,objectid"`
	Assignee    string   `json:"assignee" binding:"omitempty,objectid"`
	DueDate     *dueDate `json:"dueDate"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Create(c, callerFromContext(c), services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		StatusID:    req.Status,
		AssigneeID:  req.Assignee,
		DueDate:     req.DueDate.ptr(),
		Priority:    models.Priority(req.Priority),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		if errors.Is(err, services.ErrStatusNotFound) {
			abort(c, newAPIError(http.StatusNotFound, "Invalid status"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, "Task created successfully", h.newTaskResponse(task))
}

func (h *handlerImpl) HandlePaginateTasks(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	var fields map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) > 0 {
		err = json.Unmarshal(body, &fields)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to decode request body")
			abort(c, newBadRequestError(errInvalidRequestBody.Error()))
			return
		}
	}

	page, err := h.tasks.Paginate(c, callerFromContext(c), query.ParseParams(c.Request.URL.Query(), fields))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to paginate tasks")
		abort(c, newServiceError(err))
		return
	}

	message := "Tasks fetched successfully"
	if len(page.Tasks) == 0 {
		message = "No tasks found"
	}
	c.JSON(http.StatusOK, envelope{
		Status:       true,
		ResponseCode: http.StatusOK,
		Message:      message,
		Data:         h.newTaskResponses(page.Tasks),
		Pagination:   newPaginationResponse(page.Pagination),
	})
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c, callerFromContext(c))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Tasks fetched successfully", h.newTaskResponses(tasks))
}

func (h *handlerImpl) HandleGetBoard(c *gin.Context) {
	tasks, err := h.tasks.Board(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task board")
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Tasks fetched successfully", h.newTaskResponses(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	var uri idURI
	if !h.bindURI(c, &uri) {
		return
	}

	task, err := h.tasks.Get(c, callerFromContext(c), uri.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", uri.ID).
			Msg("failed to get task")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Not authorized to view this task"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Task fetched successfully", h.newTaskResponse(task))
}

type updateTaskRequest struct {
	ID          string   `json:"id" binding:"required,objectid"`
	Title       *string  `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" binding:"omitempty,objectid"`
	Assignee    *string  `json:"assignee" binding:"omitempty,objectid"`
	DueDate     *dueDate `json:"dueDate"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	params := services.UpdateTaskParams{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		StatusID:    req.Status,
		AssigneeID:  req.Assignee,
		DueDate:     req.DueDate.ptr(),
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		params.Priority = &p
	}

	task, err := h.tasks.Update(c, callerFromContext(c), params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.ID).
			Msg("failed to update task")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Not authorized to update this task"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Task updated successfully", h.newTaskResponse(task))
}

type moveTaskRequest struct {
	ID     string `json:"id" binding:"required,objectid"`
	Status string `json:"status" binding:"required,objectid"`
}

func (h *handlerImpl) HandleMoveTask(c *gin.Context) {
	var req moveTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Move(c, callerFromContext(c), req.ID, req.Status)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.ID).
			Msg("failed to move task")
		switch {
		case errors.Is(err, services.ErrForbidden):
			abort(c, newForbiddenError("Not authorized to move this task"))
		case errors.Is(err, services.ErrStatusNotFound):
			abort(c, newAPIError(http.StatusNotFound, "Invalid status"))
		default:
			abort(c, newServiceError(err))
		}
		return
	}

	respondOK(c, "Task moved successfully", h.newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	var req idRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.tasks.Delete(c, callerFromContext(c), req.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.ID).
			Msg("failed to delete task")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Not authorized to delete this task"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Task deleted successfully", nil)
}
