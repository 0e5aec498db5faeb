package reservation

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/availability"
)

type Confirm struct {
	Deps
}

func NewConfirm(d Deps) *Confirm {
	return &Confirm{Deps: d}
}

// Execute moves a pending appointment to confirmed and writes the blocked
// time it owns. The window is re-checked, ignoring the appointment itself.
func (uc *Confirm) Execute(
	ctx context.Context,
	businessID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	_, loc, err := uc.business(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ap, err := loadAppointment(ctx, uc.Repo, businessID, appointmentID)
	if err != nil {
		return nil, err
	}

	err = uc.serialize(ctx, businessID, ap.ResourceID, func(tx schedule.Repository) error {
		// state may have changed while waiting for the lock
		cur, err := loadAppointment(ctx, tx, businessID, appointmentID)
		if err != nil {
			return err
		}
		inLocation(cur, loc)

		if err := domain.CanConfirm(domain.Status(cur.Status)); err != nil {
			return err
		}

		if err := availability.NewEngine(tx).Check(
			ctx, businessID, cur.ResourceID, cur.StartTime, cur.EndTime,
			availability.IgnoreAppointment(cur.ID),
		); err != nil {
			return err
		}

		if err := domain.Confirm(cur, uc.now(loc)); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}
		if err := tx.InsertBlockedTime(ctx, blockFor(cur)); err != nil {
			return err
		}

		ap = cur
		return nil
	})
	if err != nil {
		uc.auditConflict(businessID, userID, ap, ap.StartTime, ap.EndTime, err)
		return nil, err
	}

	uc.audit(businessID, userID, "appointment_confirmed", ap, nil)
	uc.notify(ctx, ap, notify.KindAppointmentConfirmed, map[string]any{
		"start": ap.StartTime.Format(time.RFC3339),
	})

	return ap, nil
}
