package handlers

import (
	"github.com/gin-gonic/gin"

	service "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/payments"
	svcuc "github.com/BruksfildServices01/garage-manager/internal/usecase/service"
)

type PaymentHandler struct {
	list       *svcuc.ListPayments
	register   *svcuc.RegisterPayment
	delete     *svcuc.DeletePayment
	createPix  *svcuc.CreatePixCharge
	refreshPix *svcuc.RefreshPixCharge
}

func NewPaymentHandler(deps svcuc.Deps, gateway payments.PixGateway) *PaymentHandler {
	return &PaymentHandler{
		list:       svcuc.NewListPayments(deps),
		register:   svcuc.NewRegisterPayment(deps),
		delete:     svcuc.NewDeletePayment(deps),
		createPix:  svcuc.NewCreatePixCharge(deps, gateway),
		refreshPix: svcuc.NewRefreshPixCharge(deps, gateway),
	}
}

// RegisterPaymentRequest splits one payment across methods. Empty or
// zero amounts are skipped.
type RegisterPaymentRequest struct {
	Pix   string `json:"pix" binding:"omitempty,money"`
	Cash  string `json:"cash" binding:"omitempty,money"`
	Check string `json:"check" binding:"omitempty,money"`
	Card  string `json:"card" binding:"omitempty,money"`
	Notes string `json:"notes" binding:"omitempty,max=255"`
}

type PixChargeRequest struct {
	Amount string `json:"amount" binding:"omitempty,money"`
}

func (h *PaymentHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_list_payments", "Erro ao listar pagamentos.")
		return
	}

	httpresp.List(c, list)
}

func (h *PaymentHandler) Register(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	split := service.Split{Pix: req.Pix, Cash: req.Cash, Check: req.Check, Card: req.Card}

	detail, err := h.register.Execute(c.Request.Context(), actorFrom(c), id, split, req.Notes)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_register_payment", "Erro ao registrar pagamento.")
		return
	}

	httpresp.Created(c, detail)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "paymentId")
	if !ok {
		return
	}

	detail, err := h.delete.Execute(c.Request.Context(), actorFrom(c), id, paymentID)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_delete_payment", "Erro ao excluir pagamento.")
		return
	}

	httpresp.OK(c, detail)
}

// ======================================================
// PIX
// ======================================================

func (h *PaymentHandler) CreatePix(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PixChargeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BindError(c, err)
			return
		}
	}

	res, err := h.createPix.Execute(c.Request.Context(), actorFrom(c), id, req.Amount)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_create_pix", "Erro ao gerar cobrança PIX.")
		return
	}

	httpresp.Created(c, res)
}

func (h *PaymentHandler) RefreshPix(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(c, "paymentId")
	if !ok {
		return
	}

	res, err := h.refreshPix.Execute(c.Request.Context(), actorFrom(c), id, paymentID)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_refresh_pix", "Erro ao consultar cobrança PIX.")
		return
	}

	httpresp.OK(c, res)
}
