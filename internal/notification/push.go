package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

var ErrPushDisabled = errors.New("notification: vapid keys not configured")

// DeliveryError is a non-2xx answer from a push service.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push service answered %d: %s", e.StatusCode, e.Body)
}

// Gone reports whether the subscription no longer exists and should be
// dropped.
func (e *DeliveryError) Gone() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

func IsGone(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.Gone()
}

type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, p Payload) error
}

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	// Subject is a mailto: or https: contact for the push service.
	Subject string
	TTL     int
}

type WebPushSender struct {
	vapid  VAPIDConfig
	client webpush.HTTPClient
}

func NewWebPushSender(cfg VAPIDConfig, client webpush.HTTPClient) (*WebPushSender, error) {
	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return nil, ErrPushDisabled
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 3600
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WebPushSender{vapid: cfg, client: client}, nil
}

func (s *WebPushSender) PublicKey() string {
	return s.vapid.PublicKey
}

func (s *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.vapid.Subject,
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             s.vapid.TTL,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	return nil
}

// GenerateVAPIDKeys returns a new private/public pair, base64url encoded.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}

var _ Sender = (*WebPushSender)(nil)
