package reservation

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/payment"
)

type Cancel struct {
	Deps
}

func NewCancel(d Deps) *Cancel {
	return &Cancel{Deps: d}
}

// Execute cancels a pending or confirmed appointment and removes only the
// blocked time it owns. A second cancel fails with already_cancelled and
// writes nothing. Refund failures never undo the cancellation, and the
// customer is notified either way.
func (uc *Cancel) Execute(
	ctx context.Context,
	businessID uint,
	userID *uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	_, loc, err := uc.business(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ap, err := loadAppointment(ctx, uc.Repo, businessID, appointmentID)
	if err != nil {
		return nil, err
	}

	var released int64
	err = uc.serialize(ctx, businessID, ap.ResourceID, func(tx schedule.Repository) error {
		cur, err := loadAppointment(ctx, tx, businessID, appointmentID)
		if err != nil {
			return err
		}
		inLocation(cur, loc)

		if err := domain.Cancel(cur, uc.now(loc), reason); err != nil {
			return err
		}

		// pending appointments own no block; zero rows is fine
		released, err = tx.DeleteBlockedTime(ctx, ownBlock(cur))
		if err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}

		ap = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit(businessID, userID, "appointment_cancelled", ap, map[string]any{
		"reason":          reason,
		"blocks_released": released,
	})

	refund := "none"
	if domain.RefundOwed(ap) {
		refund = uc.refund(ctx, ap, userID)
	}

	uc.notify(ctx, ap, notify.KindAppointmentCancelled, map[string]any{
		"start":  ap.StartTime.Format(time.RFC3339),
		"reason": reason,
		"refund": refund,
	})

	return ap, nil
}

// refund returns "refunded" or "failed"; a failure is logged and audited.
func (uc *Cancel) refund(ctx context.Context, ap *models.Appointment, userID *uint) string {
	res, err := uc.Refunder.Refund(ctx, payment.RefundRequest{
		BusinessID:    ap.BusinessID,
		AppointmentID: ap.ID,
		PaymentID:     *ap.PaymentID,
		Amount:        ap.AmountPaid,
	})
	if err != nil {
		uc.Logger.Error("refund failed",
			zap.Uint("appointment_id", ap.ID),
			zap.Int64("payment_id", *ap.PaymentID),
			zap.Error(err),
		)
		uc.audit(ap.BusinessID, userID, "refund_failed", ap, map[string]any{
			"error": err.Error(),
		})
		return "failed"
	}

	refundedAt := uc.now(ap.StartTime.Location())
	ap.RefundID = &res.RefundID
	ap.RefundedAt = &refundedAt
	if err := uc.Repo.UpdateAppointment(ctx, ap); err != nil {
		uc.Logger.Error("refund not recorded",
			zap.Uint("appointment_id", ap.ID),
			zap.Int64("refund_id", res.RefundID),
			zap.Error(err),
		)
	}

	uc.audit(ap.BusinessID, userID, "refund_issued", ap, map[string]any{
		"refund_id": res.RefundID,
		"status":    res.Status,
	})
	return "refunded"
}
