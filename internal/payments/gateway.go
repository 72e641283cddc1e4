package payments

import (
	"context"
	"errors"
)

const (
	PixApproved = "approved"
	PixPending  = "pending"
)

var ErrNotConfigured = errors.New("payments: pix gateway not configured")

type PixRequest struct {
	Amount            float64
	Description       string
	ExternalReference string
	PayerEmail        string
}

type PixCharge struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	TicketURL    string `json:"ticket_url"`
}

type PixGateway interface {
	CreatePix(ctx context.Context, req PixRequest) (*PixCharge, error)
	GetPix(ctx context.Context, id string) (*PixCharge, error)
}

// Disabled is used when no access token is configured.
type Disabled struct{}

func (Disabled) CreatePix(context.Context, PixRequest) (*PixCharge, error) {
	return nil, ErrNotConfigured
}

func (Disabled) GetPix(context.Context, string) (*PixCharge, error) {
	return nil, ErrNotConfigured
}
