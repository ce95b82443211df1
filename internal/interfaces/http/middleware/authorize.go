package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// RequireAccess guards a route group with identity.Authorize. The action is
// derived from the HTTP method: reads for GET and HEAD, deletes for DELETE
// and writes otherwise.
func RequireAccess(kind identity.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		decision := identity.Authorize(actor, actionFor(c.Request.Method), identity.Resource{Kind: kind})
		if !decision.Allowed {
			logger.L(c.Request.Context()).Warn("Access denied",
				zap.String("resource", string(kind)),
				zap.String("role", string(actor.Role)),
				zap.String("reason", decision.Reason),
			)
			abortWithError(c, dto.ErrCodeForbidden, decision.Reason)
			return
		}
		c.Next()
	}
}

func actionFor(method string) identity.Action {
	switch method {
	case http.MethodGet, http.MethodHead:
		return identity.ActionRead
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionWrite
	}
}
