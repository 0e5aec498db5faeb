package reservation

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/availability"
)

// defaultMinAdvance applies to public bookings when the business has none.
const defaultMinAdvance = 120 * time.Minute

type CreateInput struct {
	BusinessID uint
	ResourceID uint
	ServiceID  uint
	UserID     *uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Date  string
	Time  string
	Notes string

	// Public bookings must respect the business's minimum advance.
	Public bool
}

type Create struct {
	Deps
}

func NewCreate(d Deps) *Create {
	return &Create{Deps: d}
}

// Execute stores a pending appointment. Pending appointments hold their
// window, so the check and the insert run serialized on the resource.
func (uc *Create) Execute(ctx context.Context, in CreateInput) (*models.Appointment, error) {

	// --------------------------------------------------
	// Business and start time in its location
	// --------------------------------------------------
	biz, loc, err := uc.business(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	start, err := parseWindow(loc, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	now := uc.now(loc)
	minAdvance := time.Duration(0)
	if in.Public {
		minAdvance = time.Duration(biz.MinAdvanceMinutes) * time.Minute
		if minAdvance <= 0 {
			minAdvance = defaultMinAdvance
		}
	}
	if start.Before(now.Add(minAdvance)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// Resource and service
	// --------------------------------------------------
	if _, err := uc.Repo.GetResource(ctx, in.BusinessID, in.ResourceID); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, httperr.ErrBusiness("resource_not_found")
		}
		return nil, err
	}

	svc, err := uc.Repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	// --------------------------------------------------
	// Check and insert
	// --------------------------------------------------
	ap := &models.Appointment{
		BusinessID: in.BusinessID,
		ResourceID: in.ResourceID,
		ServiceID:  svc.ID,
		StartTime:  start,
		EndTime:    end,
		Status:     string(domain.InitialStatus()),
		Notes:      in.Notes,
	}

	err = uc.serialize(ctx, in.BusinessID, in.ResourceID, func(tx schedule.Repository) error {
		if err := availability.NewEngine(tx).Check(ctx, in.BusinessID, in.ResourceID, start, end); err != nil {
			return err
		}

		customer, err := tx.GetOrCreateCustomer(ctx, in.BusinessID, in.CustomerName, in.CustomerPhone, in.CustomerEmail)
		if err != nil {
			return err
		}
		ap.CustomerID = customer.ID
		ap.Customer = *customer

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		uc.auditConflict(in.BusinessID, in.UserID, nil, start, end, err)
		return nil, err
	}
	ap.Service = *svc

	uc.audit(in.BusinessID, in.UserID, "appointment_created", ap, nil)
	uc.notify(ctx, ap, notify.KindAppointmentRequested, map[string]any{
		"start": ap.StartTime.Format(time.RFC3339),
	})

	return ap, nil
}
