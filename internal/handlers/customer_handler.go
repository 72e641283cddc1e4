package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	service "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/validators"
)

type CustomerHandler struct {
	db    *gorm.DB
	audit audit.Recorder
	cache cache.Cache
	log   logrus.FieldLogger
}

func NewCustomerHandler(db *gorm.DB, rec audit.Recorder, c cache.Cache, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{db: db, audit: rec, cache: c, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CustomerRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Document string `json:"document" binding:"omitempty,document"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address" binding:"omitempty,max=255"`
	Notes    string `json:"notes"`
}

func (r *CustomerRequest) apply(cu *models.Customer) {
	cu.Name = strings.TrimSpace(r.Name)
	cu.Document = nil
	if d := validators.OnlyDigits(r.Document); d != "" {
		cu.Document = &d
	}
	cu.Phone = strings.TrimSpace(r.Phone)
	cu.Email = strings.ToLower(strings.TrimSpace(r.Email))
	cu.Address = strings.TrimSpace(r.Address)
	cu.Notes = r.Notes
}

// ======================================================
// LIST
// ======================================================

func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, limit, offset := httpresp.Pagination(c, 20, 100)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Customer{})

	if query != "" {
		like := "%" + query + "%"
		digits := validators.OnlyDigits(query)
		if digits == "" {
			digits = query
		}
		q = q.Where(
			"LOWER(name) LIKE ? OR document LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, "%"+digits+"%", like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Erro ao listar clientes.")
		return
	}

	var customers []models.Customer
	if err := q.
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Erro ao listar clientes.")
		return
	}

	httpresp.Page(c, customers, total, page, limit)
}

// ======================================================
// GET
// ======================================================

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cu, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_customer", "Erro ao buscar cliente.")
		return
	}

	httpresp.OK(c, cu)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *CustomerHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	var cu models.Customer
	req.apply(&cu)

	if err := h.db.WithContext(c.Request.Context()).Create(&cu).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_create_customer", "Erro ao criar cliente.")
		return
	}

	h.changed(c, userID, "customer_created", &cu)
	httpresp.Created(c, cu)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	cu, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_customer", "Erro ao buscar cliente.")
		return
	}

	req.apply(cu)
	cu.Vehicles = nil

	if err := h.db.WithContext(c.Request.Context()).Save(cu).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_update_customer", "Erro ao atualizar cliente.")
		return
	}

	h.changed(c, userID, "customer_updated", cu)
	httpresp.OK(c, cu)
}

// ======================================================
// DELETE
// ======================================================

// Delete removes the customer with its vehicles and closed services.
// Customers with open services are kept.
func (h *CustomerHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cu, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_customer", "Erro ao buscar cliente.")
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return deleteCustomer(tx, cu.ID)
	})
	if err != nil {
		httperr.WriteError(c, err, "failed_to_delete_customer", "Erro ao excluir cliente.")
		return
	}

	h.changed(c, userID, "customer_deleted", cu)
	httpresp.NoContent(c)
}

// ======================================================
// HELPERS
// ======================================================

// deleteCustomer runs inside tx. The customer row is locked first so a
// service created concurrently either commits before the count or
// waits until the customer is gone and fails its foreign key.
func deleteCustomer(tx *gorm.DB, id uint) error {
	var locked models.Customer
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("customer_not_found")
		}
		return err
	}

	var open int64
	if err := tx.Model(&models.Service{}).
		Where("customer_id = ? AND status IN ?", id, service.OpenStatuses).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return httperr.ErrBusiness("customer_has_open_services")
	}

	ids := tx.Model(&models.Service{}).Select("id").Where("customer_id = ?", id)
	if err := tx.Where("service_id IN (?)", ids).Delete(&models.ServiceReminder{}).Error; err != nil {
		return err
	}
	if err := tx.Where("customer_id = ?", id).Delete(&models.Service{}).Error; err != nil {
		return err
	}
	if err := tx.Where("customer_id = ?", id).Delete(&models.Vehicle{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Customer{}, id).Error
}

func (h *CustomerHandler) find(c *gin.Context, id uint) (*models.Customer, error) {
	var cu models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("plate ASC") }).
		First(&cu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("customer_not_found")
		}
		return nil, err
	}
	return &cu, nil
}

func (h *CustomerHandler) changed(c *gin.Context, userID uint, action string, cu *models.Customer) {
	if err := h.cache.Invalidate(c.Request.Context(), cache.NamespaceDashboard); err != nil {
		h.log.WithError(err).WithField("customer_id", cu.ID).Warn("dashboard cache invalidation failed")
	}
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "customer",
		EntityID: &cu.ID,
		Metadata: map[string]any{"name": cu.Name},
	})
}
