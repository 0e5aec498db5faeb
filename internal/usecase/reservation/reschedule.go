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

type RescheduleInput struct {
	BusinessID    uint
	AppointmentID uint
	UserID        *uint

	Date      string
	StartTime string
	// EndTime is optional; the current duration is kept when empty.
	EndTime string
}

type Reschedule struct {
	Deps
}

func NewReschedule(d Deps) *Reschedule {
	return &Reschedule{Deps: d}
}

// Execute moves an occupying appointment. The new window is checked
// ignoring the appointment itself; on any conflict nothing is written.
// Block removal, the move and the new block share one transaction.
func (uc *Reschedule) Execute(ctx context.Context, in RescheduleInput) (*models.Appointment, error) {

	_, loc, err := uc.business(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	ap, err := loadAppointment(ctx, uc.Repo, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	start, err := parseWindow(loc, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	var end time.Time
	if in.EndTime != "" {
		if end, err = parseWindow(loc, in.Date, in.EndTime); err != nil {
			return nil, err
		}
	}

	var old models.Appointment
	err = uc.serialize(ctx, in.BusinessID, ap.ResourceID, func(tx schedule.Repository) error {
		cur, err := loadAppointment(ctx, tx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}
		inLocation(cur, loc)
		old = *cur

		if err := domain.CanReschedule(domain.Status(cur.Status)); err != nil {
			return err
		}

		newEnd := end
		if newEnd.IsZero() {
			newEnd = start.Add(windowOf(cur).Duration())
		}

		if err := availability.NewEngine(tx).Check(
			ctx, in.BusinessID, cur.ResourceID, start, newEnd,
			availability.IgnoreAppointment(cur.ID),
		); err != nil {
			return err
		}

		confirmed := domain.Status(cur.Status) == domain.StatusConfirmed

		if confirmed {
			if _, err := tx.DeleteBlockedTime(ctx, ownBlock(cur)); err != nil {
				return err
			}
		}

		if err := domain.Move(cur, start, newEnd); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}

		if confirmed {
			if err := tx.InsertBlockedTime(ctx, blockFor(cur)); err != nil {
				return err
			}
		}

		ap = cur
		return nil
	})
	if err != nil {
		conflictEnd := end
		if conflictEnd.IsZero() {
			conflictEnd = start.Add(windowOf(ap).Duration())
		}
		uc.auditConflict(in.BusinessID, in.UserID, ap, start, conflictEnd, err)
		return nil, err
	}

	uc.audit(in.BusinessID, in.UserID, "appointment_rescheduled", ap, map[string]any{
		"from": old.StartTime.Format(time.RFC3339),
		"to":   ap.StartTime.Format(time.RFC3339),
	})
	uc.notify(ctx, ap, notify.KindAppointmentRescheduled, map[string]any{
		"previous_start": old.StartTime.Format(time.RFC3339),
		"start":          ap.StartTime.Format(time.RFC3339),
	})

	return ap, nil
}
