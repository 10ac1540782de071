package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/services"
)

type createRoleRequest struct {
	Name string `json:"name" binding:"required,notblank,max=50"`
}

func (h *handlerImpl) HandleCreateRole(c *gin.Context) {
	var req createRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roles.Create(c, callerFromContext(c), req.Name)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create role")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Only admin can create roles"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, "Role created successfully", newRoleResponse(role))
}

func (h *handlerImpl) HandleGetRoles(c *gin.Context) {
	roles, err := h.roles.List(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get roles")
		abort(c, newServiceError(err))
		return
	}

	res := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, newRoleResponse(r))
	}
	respondOK(c, "Roles fetched successfully", res)
}

func (h *handlerImpl) HandleGetRole(c *gin.Context) {
	var uri idURI
	if !h.bindURI(c, &uri) {
		return
	}

	role, err := h.roles.Get(c, uri.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("role_id", uri.ID).
			Msg("failed to get role")
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Role fetched successfully", newRoleResponse(role))
}

type updateRoleRequest struct {
	ID   string `json:"id" binding:"required,objectid"`
	Name string `json:"name" binding:"required,notblank,max=50"`
}

func (h *handlerImpl) HandleUpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	role, err := h.roles.Update(c, callerFromContext(c), req.ID, req.Name)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("role_id", req.ID).
			Msg("failed to update role")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Only admin can update roles"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Role updated successfully", newRoleResponse(role))
}

func (h *handlerImpl) HandleDeleteRole(c *gin.Context) {
	var req idRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.roles.Delete(c, callerFromContext(c), req.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("role_id", req.ID).
			Msg("failed to delete role")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Only admin can delete roles"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Role deleted successfully", nil)
}
