package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/dashboard"
	service "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	dashuc "github.com/BruksfildServices01/garage-manager/internal/usecase/dashboard"
)

const permissionDashboardAll = "dashboard.view_all"

// DashboardHandler never fails a read: the use case degrades to zero
// values and these endpoints always answer 200.
type DashboardHandler struct {
	dash  *dashuc.Dashboard
	perms middleware.PermissionChecker
}

func NewDashboardHandler(dash *dashuc.Dashboard, perms middleware.PermissionChecker) *DashboardHandler {
	return &DashboardHandler{dash: dash, perms: perms}
}

// scope limits technicians to their own services unless they hold
// dashboard.view_all. Those who see everything may pass technician_id.
func (h *DashboardHandler) scope(c *gin.Context) service.Scope {
	actor := actorFrom(c)
	if !actor.Admin {
		if ok, err := h.perms.HasPermission(c.Request.Context(), actor.UserID, permissionDashboardAll); err == nil && ok {
			actor.Admin = true
		}
	}
	return actor.Scope(queryUintPtr(c, "technician_id"))
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	httpresp.OK(c, h.dash.Stats(c.Request.Context(), h.scope(c)))
}

// Revenue takes ?days=1..365 (default 7) and ?variant=estimated|realized.
func (h *DashboardHandler) Revenue(c *gin.Context) {
	variant := domain.ParseVariant(c.Query("variant"))
	httpresp.OK(c, h.dash.Revenue(c.Request.Context(), h.scope(c), queryInt(c, "days"), variant))
}

func (h *DashboardHandler) TopServices(c *gin.Context) {
	httpresp.OK(c, h.dash.TopServices(c.Request.Context(), h.scope(c), queryInt(c, "limit")))
}

func (h *DashboardHandler) RecentServices(c *gin.Context) {
	httpresp.OK(c, h.dash.RecentServices(c.Request.Context(), h.scope(c), queryInt(c, "limit")))
}

func (h *DashboardHandler) UpcomingAppointments(c *gin.Context) {
	httpresp.OK(c, h.dash.UpcomingAppointments(c.Request.Context(), h.scope(c), queryInt(c, "limit")))
}

func (h *DashboardHandler) Customers(c *gin.Context) {
	httpresp.OK(c, h.dash.CustomerAnalytics(c.Request.Context(), queryInt(c, "limit")))
}

func (h *DashboardHandler) Vehicles(c *gin.Context) {
	httpresp.OK(c, h.dash.VehicleAnalytics(c.Request.Context(), queryInt(c, "limit")))
}
