package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
)

type PushStore interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	DeleteByEndpoint(ctx context.Context, userID uint, endpoint string) (bool, error)
}

type PushNotifier interface {
	NotifyUsers(ctx context.Context, userIDs []uint, p notification.Payload) (notification.Result, error)
}

// PushHandler answers 503 on everything but unsubscribe when no VAPID
// keys are configured (notifier nil).
type PushHandler struct {
	store     PushStore
	notifier  PushNotifier
	publicKey string
}

func NewPushHandler(store PushStore, notifier PushNotifier, publicKey string) *PushHandler {
	return &PushHandler{store: store, notifier: notifier, publicKey: publicKey}
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

func (h *PushHandler) enabled(c *gin.Context) bool {
	if h.notifier == nil || h.publicKey == "" {
		httperr.WriteError(c, httperr.ErrBusiness("push_unavailable"), "", "")
		return false
	}
	return true
}

func (h *PushHandler) VapidKey(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.publicKey})
}

func (h *PushHandler) Subscribe(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	ua := c.Request.UserAgent()
	if len(ua) > 255 {
		ua = ua[:255]
	}

	sub := models.PushSubscription{
		UserID:    userID,
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UserAgent: ua,
	}
	if err := h.store.Upsert(c.Request.Context(), &sub); err != nil {
		httperr.Internal(c, "failed_to_subscribe", "Erro ao registrar notificações.")
		return
	}

	httpresp.Created(c, gin.H{"subscribed": true})
}

func (h *PushHandler) Unsubscribe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	removed, err := h.store.DeleteByEndpoint(c.Request.Context(), userID, req.Endpoint)
	if err != nil {
		httperr.Internal(c, "failed_to_unsubscribe", "Erro ao remover notificações.")
		return
	}

	httpresp.OK(c, gin.H{"removed": removed})
}

// Test pushes a sample notification to every device of the caller.
func (h *PushHandler) Test(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uint)

	p := notification.NewPayload(
		"Notificações ativas",
		"Você receberá lembretes dos serviços agendados.",
		"/",
		"push-test",
	)

	res, err := h.notifier.NotifyUsers(c.Request.Context(), []uint{userID}, p)
	if err != nil {
		httperr.Internal(c, "failed_to_send_push", "Erro ao enviar notificação.")
		return
	}

	httpresp.OK(c, res)
}
