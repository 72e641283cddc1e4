package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

type MercadoPago struct {
	client payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{client: payment.NewClient(cfg)}, nil
}

func (m *MercadoPago) CreatePix(ctx context.Context, req PixRequest) (*PixCharge, error) {
	res, err := m.client.Create(ctx, payment.Request{
		TransactionAmount: req.Amount,
		PaymentMethodID:   "pix",
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
		Payer: &payment.PayerRequest{
			Email: req.PayerEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pix payment: %w", err)
	}
	return toCharge(res), nil
}

func (m *MercadoPago) GetPix(ctx context.Context, id string) (*PixCharge, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid pix id %q: %w", id, err)
	}

	res, err := m.client.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("get pix payment: %w", err)
	}
	return toCharge(res), nil
}

func toCharge(res *payment.Response) *PixCharge {
	td := res.PointOfInteraction.TransactionData
	return &PixCharge{
		ID:           strconv.Itoa(res.ID),
		Status:       res.Status,
		QRCode:       td.QRCode,
		QRCodeBase64: td.QRCodeBase64,
		TicketURL:    td.TicketURL,
	}
}

var _ PixGateway = (*MercadoPago)(nil)
