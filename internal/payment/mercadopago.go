package payment

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/refund"
)

// MercadoPago refunds through the Mercado Pago payments API. Partial
// amounts are refunded when the request amount is set.
type MercadoPago struct {
	client refund.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{client: refund.NewClient(cfg)}, nil
}

func (m *MercadoPago) Refund(ctx context.Context, req RefundRequest) (RefundResult, error) {
	var (
		res *refund.Response
		err error
	)
	if req.Amount > 0 {
		res, err = m.client.CreatePartialRefund(ctx, int(req.PaymentID), req.Amount)
	} else {
		res, err = m.client.Create(ctx, int(req.PaymentID))
	}
	if err != nil {
		return RefundResult{}, fmt.Errorf("mercadopago refund payment %d: %w", req.PaymentID, err)
	}

	return RefundResult{
		RefundID: int64(res.ID),
		Status:   res.Status,
	}, nil
}

var _ Refunder = (*MercadoPago)(nil)
