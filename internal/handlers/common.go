package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	service "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID: c.MustGet(middleware.ContextUserID).(uint),
		Admin:  c.GetString(middleware.ContextUserRole) == models.RoleAdmin,
	}
}

// pathID reads a numeric path param and writes the 400 itself.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// queryUint returns 0 when the param is absent or malformed.
func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func queryUintPtr(c *gin.Context, name string) *uint {
	if v := queryUint(c, name); v > 0 {
		return &v
	}
	return nil
}
