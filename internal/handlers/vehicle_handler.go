package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	vehicleuc "github.com/BruksfildServices01/garage-manager/internal/usecase/vehicle"
	"github.com/BruksfildServices01/garage-manager/internal/validators"
)

type VehicleHandler struct {
	db     *gorm.DB
	audit  audit.Recorder
	cache  cache.Cache
	delete *vehicleuc.DeleteVehicle
	log    logrus.FieldLogger
}

func NewVehicleHandler(
	db *gorm.DB,
	rec audit.Recorder,
	c cache.Cache,
	del *vehicleuc.DeleteVehicle,
	log logrus.FieldLogger,
) *VehicleHandler {
	return &VehicleHandler{db: db, audit: rec, cache: c, delete: del, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type VehicleRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	Plate      string `json:"plate" binding:"required,plate"`
	Brand      string `json:"brand" binding:"omitempty,max=60"`
	Model      string `json:"model" binding:"omitempty,max=60"`
	Year       int    `json:"year" binding:"omitempty,min=1900,max=2100"`
	Color      string `json:"color" binding:"omitempty,max=30"`
	Mileage    int    `json:"mileage" binding:"omitempty,min=0"`
	Notes      string `json:"notes"`
}

func (r *VehicleRequest) apply(v *models.Vehicle) {
	v.CustomerID = r.CustomerID
	v.Plate = validators.NormalizePlate(r.Plate)
	v.Brand = strings.TrimSpace(r.Brand)
	v.Model = strings.TrimSpace(r.Model)
	v.Year = r.Year
	v.Color = strings.TrimSpace(r.Color)
	v.Mileage = r.Mileage
	v.Notes = r.Notes
}

// ======================================================
// LIST / GET
// ======================================================

func (h *VehicleHandler) List(c *gin.Context) {
	page, limit, offset := httpresp.Pagination(c, 20, 100)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Vehicle{})

	if customerID := queryUint(c, "customer_id"); customerID > 0 {
		q = q.Where("customer_id = ?", customerID)
	}
	if plate := validators.NormalizePlate(c.Query("plate")); plate != "" {
		q = q.Where("plate LIKE ?", "%"+plate+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_vehicles", "Erro ao listar veículos.")
		return
	}

	var vehicles []models.Vehicle
	if err := q.
		Preload("Customer").
		Order("plate ASC").
		Limit(limit).
		Offset(offset).
		Find(&vehicles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_vehicles", "Erro ao listar veículos.")
		return
	}

	httpresp.Page(c, vehicles, total, page, limit)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	v, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_vehicle", "Erro ao buscar veículo.")
		return
	}

	httpresp.OK(c, v)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *VehicleHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	if err := h.customerExists(c, req.CustomerID); err != nil {
		httperr.WriteError(c, err, "failed_to_create_vehicle", "Erro ao criar veículo.")
		return
	}

	var v models.Vehicle
	req.apply(&v)

	if err := h.db.WithContext(c.Request.Context()).Create(&v).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_create_vehicle", "Erro ao criar veículo.")
		return
	}

	h.changed(c, userID, "vehicle_created", &v)
	httpresp.Created(c, v)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	v, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_vehicle", "Erro ao buscar veículo.")
		return
	}

	if req.CustomerID != v.CustomerID {
		if err := h.customerExists(c, req.CustomerID); err != nil {
			httperr.WriteError(c, err, "failed_to_update_vehicle", "Erro ao atualizar veículo.")
			return
		}
	}

	req.apply(v)
	v.Customer = nil

	if err := h.db.WithContext(c.Request.Context()).Save(v).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_update_vehicle", "Erro ao atualizar veículo.")
		return
	}

	h.changed(c, userID, "vehicle_updated", v)
	httpresp.OK(c, v)
}

// ======================================================
// DELETE
// ======================================================

func (h *VehicleHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), userID, id); err != nil {
		httperr.WriteError(c, err, "failed_to_delete_vehicle", "Erro ao excluir veículo.")
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// HELPERS
// ======================================================

func (h *VehicleHandler) find(c *gin.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Customer").
		First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("vehicle_not_found")
		}
		return nil, err
	}
	return &v, nil
}

func (h *VehicleHandler) customerExists(c *gin.Context, id uint) error {
	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return httperr.ErrBusiness("customer_not_found")
	}
	return nil
}

func (h *VehicleHandler) changed(c *gin.Context, userID uint, action string, v *models.Vehicle) {
	if err := h.cache.Invalidate(c.Request.Context(), cache.NamespaceDashboard); err != nil {
		h.log.WithError(err).WithField("vehicle_id", v.ID).Warn("dashboard cache invalidation failed")
	}
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "vehicle",
		EntityID: &v.ID,
		Metadata: map[string]any{"plate": v.Plate},
	})
}
