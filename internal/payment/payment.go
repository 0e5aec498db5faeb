package payment

import (
	"context"
	"errors"
	"sync"
)

var ErrRefundsDisabled = errors.New("refunds_disabled")

type RefundRequest struct {
	BusinessID    uint
	AppointmentID uint
	PaymentID     int64
	Amount        float64
}

type RefundResult struct {
	RefundID int64
	Status   string
}

// Refunder returns money for a cancelled paid appointment.
type Refunder interface {
	Refund(ctx context.Context, req RefundRequest) (RefundResult, error)
}

// Disabled is used when no payment provider is configured.
type Disabled struct{}

func (Disabled) Refund(context.Context, RefundRequest) (RefundResult, error) {
	return RefundResult{}, ErrRefundsDisabled
}

// Memory records refunds in process; Err makes every call fail.
type Memory struct {
	mu      sync.Mutex
	Err     error
	next    int64
	Refunds []RefundRequest
}

func (m *Memory) Refund(_ context.Context, req RefundRequest) (RefundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return RefundResult{}, m.Err
	}
	m.next++
	m.Refunds = append(m.Refunds, req)
	return RefundResult{RefundID: m.next, Status: "approved"}, nil
}
