package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
)

type ServiceTypeHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewServiceTypeHandler(db *gorm.DB, rec audit.Recorder) *ServiceTypeHandler {
	return &ServiceTypeHandler{db: db, audit: rec}
}

type ServiceTypeRequest struct {
	Name                  string `json:"name" binding:"required,max=100"`
	Description           string `json:"description" binding:"omitempty,max=255"`
	DefaultPrice          string `json:"default_price" binding:"required,money"`
	RecurringIntervalDays *int   `json:"recurring_interval_days" binding:"omitempty,min=1,max=3650"`
	LoyaltyPoints         int    `json:"loyalty_points" binding:"omitempty,min=0"`
	Active                *bool  `json:"active"`
}

// ======================================================
// LIST
// ======================================================

func (h *ServiceTypeHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.ServiceType{})

	switch c.DefaultQuery("active", "true") {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var types []models.ServiceType
	if err := q.Order("name ASC").Find(&types).Error; err != nil {
		httperr.Internal(c, "failed_to_list_service_types", "Erro ao listar tipos de serviço.")
		return
	}

	httpresp.List(c, types)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *ServiceTypeHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req ServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	st := models.ServiceType{
		Name:                  strings.TrimSpace(req.Name),
		Description:           strings.TrimSpace(req.Description),
		DefaultPrice:          money.Format(money.Parse(req.DefaultPrice)),
		RecurringIntervalDays: req.RecurringIntervalDays,
		LoyaltyPoints:         req.LoyaltyPoints,
		Active:                true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&st).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_create_service_type", "Erro ao criar tipo de serviço.")
		return
	}

	h.record(userID, "service_type_created", &st)
	httpresp.Created(c, st)
}

func (h *ServiceTypeHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	st, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_service_type", "Erro ao buscar tipo de serviço.")
		return
	}

	st.Name = strings.TrimSpace(req.Name)
	st.Description = strings.TrimSpace(req.Description)
	st.DefaultPrice = money.Format(money.Parse(req.DefaultPrice))
	st.RecurringIntervalDays = req.RecurringIntervalDays
	st.LoyaltyPoints = req.LoyaltyPoints
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(st).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_update_service_type", "Erro ao atualizar tipo de serviço.")
		return
	}

	h.record(userID, "service_type_updated", st)
	httpresp.OK(c, st)
}

// ======================================================
// DELETE
// ======================================================

// Delete hard-deletes unused types; types with service history are only
// deactivated.
func (h *ServiceTypeHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	st, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_service_type", "Erro ao buscar tipo de serviço.")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var used int64
	if err := db.Model(&models.Service{}).Where("service_type_id = ?", st.ID).Count(&used).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service_type", "Erro ao excluir tipo de serviço.")
		return
	}

	if used > 0 {
		if err := db.Model(st).Update("active", false).Error; err != nil {
			httperr.Internal(c, "failed_to_delete_service_type", "Erro ao excluir tipo de serviço.")
			return
		}
		h.record(userID, "service_type_deactivated", st)
		httpresp.NoContent(c)
		return
	}

	if err := db.Delete(&models.ServiceType{}, st.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service_type", "Erro ao excluir tipo de serviço.")
		return
	}

	h.record(userID, "service_type_deleted", st)
	httpresp.NoContent(c)
}

func (h *ServiceTypeHandler) find(c *gin.Context, id uint) (*models.ServiceType, error) {
	var st models.ServiceType
	if err := h.db.WithContext(c.Request.Context()).First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_type_not_found")
		}
		return nil, err
	}
	return &st, nil
}

func (h *ServiceTypeHandler) record(userID uint, action string, st *models.ServiceType) {
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "service_type",
		EntityID: &st.ID,
		Metadata: map[string]any{"name": st.Name},
	})
}
