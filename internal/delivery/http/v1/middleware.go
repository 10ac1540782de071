package v1

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/policy"
)

const callerCtxKey = "caller"

const missingTokenMessage = "Access denied. No token provided."

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	const bearerPrefix = "Bearer "

	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader(authHeader), bearerPrefix))
	if token == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError(missingTokenMessage))
		return
	}

	caller, err := h.auth.AuthenticateRequest(c, token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to authenticate request")
		abort(c, newServiceError(err))
		return
	}

	c.Set(callerCtxKey, caller)
	c.Next()
}

func callerFromContext(c *gin.Context) policy.Caller {
	v, _ := c.Get(callerCtxKey)
	caller, _ := v.(policy.Caller)
	return caller
}
