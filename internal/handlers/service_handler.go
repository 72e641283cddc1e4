package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	svcuc "github.com/BruksfildServices01/garage-manager/internal/usecase/service"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	create   *svcuc.CreateService
	update   *svcuc.UpdateService
	get      *svcuc.GetService
	list     *svcuc.ListServices
	start    *svcuc.StartService
	complete *svcuc.CompleteService
	cancel   *svcuc.CancelService
	delete   *svcuc.DeleteService
}

func NewServiceHandler(deps svcuc.Deps) *ServiceHandler {
	return &ServiceHandler{
		create:   svcuc.NewCreateService(deps),
		update:   svcuc.NewUpdateService(deps),
		get:      svcuc.NewGetService(deps),
		list:     svcuc.NewListServices(deps),
		start:    svcuc.NewStartService(deps),
		complete: svcuc.NewCompleteService(deps),
		cancel:   svcuc.NewCancelService(deps),
		delete:   svcuc.NewDeleteService(deps),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ItemRequest struct {
	Description string `json:"description" binding:"required,max=255"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	UnitPrice   string `json:"unit_price" binding:"required,money"`
}

type CreateServiceRequest struct {
	CustomerID    uint  `json:"customer_id" binding:"required"`
	VehicleID     uint  `json:"vehicle_id" binding:"required"`
	ServiceTypeID uint  `json:"service_type_id" binding:"required"`
	TechnicianID  *uint `json:"technician_id"`

	ScheduledDate  *string `json:"scheduled_date" binding:"omitempty,date"`
	ScheduledTime  *string `json:"scheduled_time" binding:"omitempty,hhmm"`
	EstimatedValue *string `json:"estimated_value" binding:"omitempty,money"`
	Notes          string  `json:"notes"`

	Items []ItemRequest `json:"items" binding:"omitempty,dive"`
}

type UpdateServiceRequest struct {
	ServiceTypeID  *uint          `json:"service_type_id"`
	TechnicianID   *uint          `json:"technician_id"`
	ScheduledDate  *string        `json:"scheduled_date" binding:"omitempty,date"`
	ScheduledTime  *string        `json:"scheduled_time" binding:"omitempty,hhmm"`
	ClearSchedule  bool           `json:"clear_schedule"`
	EstimatedValue *string        `json:"estimated_value" binding:"omitempty,money"`
	FinalValue     *string        `json:"final_value" binding:"omitempty,money"`
	Notes          *string        `json:"notes"`
	Items          *[]ItemRequest `json:"items" binding:"omitempty,dive"`
}

type CompleteServiceRequest struct {
	FinalValue *string `json:"final_value" binding:"omitempty,money"`
}

func toItemInputs(in []ItemRequest) []svcuc.ItemInput {
	out := make([]svcuc.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, svcuc.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out
}

// ======================================================
// LIST
// ======================================================

// List filters by ?date=YYYY-MM-DD or ?year=&month=, plus status,
// customer_id, vehicle_id and (admins only) technician_id.
func (h *ServiceHandler) List(c *gin.Context) {
	in := svcuc.ListServicesInput{
		Date:         c.Query("date"),
		Status:       c.Query("status"),
		CustomerID:   queryUint(c, "customer_id"),
		VehicleID:    queryUint(c, "vehicle_id"),
		TechnicianID: queryUintPtr(c, "technician_id"),
	}

	if y := c.Query("year"); y != "" {
		year, errY := strconv.Atoi(y)
		month, errM := strconv.Atoi(c.Query("month"))
		if errY != nil || errM != nil {
			httperr.WriteError(c, httperr.ErrBusiness("invalid_date_or_time"), "", "")
			return
		}
		in.Year, in.Month = year, time.Month(month)
	}

	services, err := h.list.Execute(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// GET
// ======================================================

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.get.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	httpresp.OK(c, detail)
}

// ======================================================
// CREATE
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	s, err := h.create.Execute(c.Request.Context(), actorFrom(c), svcuc.CreateServiceInput{
		CustomerID:     req.CustomerID,
		VehicleID:      req.VehicleID,
		ServiceTypeID:  req.ServiceTypeID,
		TechnicianID:   req.TechnicianID,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
		EstimatedValue: req.EstimatedValue,
		Notes:          req.Notes,
		Items:          toItemInputs(req.Items),
	})
	if err != nil {
		httperr.WriteError(c, err, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	httpresp.Created(c, svcuc.Detail(s))
}

// ======================================================
// UPDATE
// ======================================================

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	in := svcuc.UpdateServiceInput{
		ServiceTypeID:  req.ServiceTypeID,
		TechnicianID:   req.TechnicianID,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
		ClearSchedule:  req.ClearSchedule,
		EstimatedValue: req.EstimatedValue,
		FinalValue:     req.FinalValue,
		Notes:          req.Notes,
	}
	if req.Items != nil {
		items := toItemInputs(*req.Items)
		in.Items = &items
	}

	s, err := h.update.Execute(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	httpresp.OK(c, svcuc.Detail(s))
}

// ======================================================
// STATUS
// ======================================================

func (h *ServiceHandler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := h.start.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_start_service", "Erro ao iniciar serviço.")
		return
	}

	httpresp.OK(c, svcuc.Detail(s))
}

func (h *ServiceHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// body is optional
	var req CompleteServiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BindError(c, err)
			return
		}
	}

	s, err := h.complete.Execute(c.Request.Context(), actorFrom(c), id, req.FinalValue)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_complete_service", "Erro ao concluir serviço.")
		return
	}

	httpresp.OK(c, svcuc.Detail(s))
}

func (h *ServiceHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_cancel_service", "Erro ao cancelar serviço.")
		return
	}

	httpresp.OK(c, svcuc.Detail(s))
}

// ======================================================
// DELETE
// ======================================================

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), actorFrom(c), id); err != nil {
		httperr.WriteError(c, err, "failed_to_delete_service", "Erro ao excluir serviço.")
		return
	}

	httpresp.NoContent(c)
}
