package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, name string) (bool, error)
}

// RequirePermission lets admins through and checks everyone else against
// their granted permissions. Must run after AuthMiddleware.
func RequirePermission(checker PermissionChecker, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) == models.RoleAdmin {
			c.Next()
			return
		}

		userID := c.MustGet(ContextUserID).(uint)
		ok, err := checker.HasPermission(c.Request.Context(), userID, name)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.HTTPError{
				Code:    "permission_check_failed",
				Message: "Erro ao verificar permissões.",
			})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
				Code:    "forbidden",
				Message: "Acesso negado.",
			})
			return
		}

		c.Next()
	}
}
