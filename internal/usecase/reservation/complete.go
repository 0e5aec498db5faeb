package reservation

import (
	"context"

	domain "github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

type Complete struct {
	Deps
}

func NewComplete(d Deps) *Complete {
	return &Complete{Deps: d}
}

// Execute marks a confirmed appointment as completed. Completion frees no
// time: the window has already passed, and its block stays as history.
func (uc *Complete) Execute(
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
		// a cancel or reschedule may have committed while waiting for the lock
		cur, err := loadAppointment(ctx, tx, businessID, appointmentID)
		if err != nil {
			return err
		}
		inLocation(cur, loc)

		if err := domain.Complete(cur, uc.now(loc)); err != nil {
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

	uc.audit(businessID, userID, "appointment_completed", ap, nil)

	return ap, nil
}
