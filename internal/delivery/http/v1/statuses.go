package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/services"
)

type createStatusRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=50"`
	Order int    `json:"order"`
}

func (h *handlerImpl) HandleCreateStatus(c *gin.Context) {
	var req createStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := h.statuses.Create(c, callerFromContext(c), req.Name, req.Order)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create status")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Only admin can create statuses"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, "Status created successfully", newStatusResponse(status))
}

func (h *handlerImpl) HandleGetStatuses(c *gin.Context) {
	statuses, err := h.statuses.List(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get statuses")
		abort(c, newServiceError(err))
		return
	}

	res := make([]statusResponse, 0, len(statuses))
	for _, s := range statuses {
		res = append(res, newStatusResponse(s))
	}
	respondOK(c, "Statuses fetched successfully", res)
}

func (h *handlerImpl) HandleGetStatus(c *gin.Context) {
	var uri idURI
	if !h.bindURI(c, &uri) {
		return
	}

	status, err := h.statuses.Get(c, uri.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("status_id", uri.ID).
			Msg("failed to get status")
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Status fetched successfully", newStatusResponse(status))
}

type updateStatusRequest struct {
	ID    string  `json:"id" binding:"required,objectid"`
	Name  *string `json:"name" binding:"omitempty,notblank,max=50"`
	Order *int    `json:"order"`
}

func (h *handlerImpl) HandleUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := h.statuses.Update(c, callerFromContext(c), services.UpdateStatusParams{
		ID:    req.ID,
		Name:  req.Name,
		Order: req.Order,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("status_id", req.ID).
			Msg("failed to update status")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Only admin can update statuses"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Status updated successfully", newStatusResponse(status))
}

func (h *handlerImpl) HandleDeleteStatus(c *gin.Context) {
	var req idRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.statuses.Delete(c, callerFromContext(c), req.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("status_id", req.ID).
			Msg("failed to delete status")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Only admin can delete statuses"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Status deleted successfully", nil)
}
