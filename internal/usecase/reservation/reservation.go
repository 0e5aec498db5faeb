package reservation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/lock"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/payment"
	"github.com/BruksfildServices01/booking-availability/internal/timezone"
)

// Deps are the collaborators every reservation use case shares.
type Deps struct {
	Repo     schedule.Repository
	Locker   lock.Locker
	Audit    *audit.Dispatcher
	Notifier notify.Notifier
	Refunder payment.Refunder
	Logger   *zap.Logger

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (d Deps) now(loc *time.Location) time.Time {
	if d.Clock == nil {
		return time.Now().In(loc)
	}
	return d.Clock().In(loc)
}

// serialize runs fn as the only writer of one resource: first under the
// resource lock, then inside a transaction holding the resource row.
// Availability checks made by fn against tx see every earlier committed
// booking of that resource.
func (d Deps) serialize(
	ctx context.Context,
	businessID uint,
	resourceID uint,
	fn func(tx schedule.Repository) error,
) error {

	release, err := d.Locker.Lock(ctx, lock.ResourceKey(businessID, resourceID))
	if err != nil {
		return err
	}
	defer release()

	return d.Repo.WithinTx(ctx, func(tx schedule.Repository) error {
		if err := tx.LockResource(ctx, businessID, resourceID); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (d Deps) business(ctx context.Context, businessID uint) (*models.Business, *time.Location, error) {
	biz, err := d.Repo.GetBusiness(ctx, businessID)
	if errors.Is(err, schedule.ErrNotFound) {
		return nil, nil, httperr.ErrBusiness("business_not_found")
	}
	if err != nil {
		return nil, nil, err
	}
	return biz, timezone.Location(biz.Timezone), nil
}

func loadAppointment(ctx context.Context, repo schedule.Repository, businessID, appointmentID uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, businessID, appointmentID)
	if errors.Is(err, schedule.ErrNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, err
}

// inLocation rewrites the stored window into the business location so
// weekday and day boundaries are computed there.
func inLocation(ap *models.Appointment, loc *time.Location) {
	ap.StartTime = ap.StartTime.In(loc)
	ap.EndTime = ap.EndTime.In(loc)
}

func ownBlock(ap *models.Appointment) schedule.BlockedTimeMatch {
	return schedule.BlockedTimeMatch{
		BusinessID:    ap.BusinessID,
		ResourceID:    ap.ResourceID,
		AppointmentID: ap.ID,
		Start:         ap.StartTime,
		End:           ap.EndTime,
	}
}

func blockFor(ap *models.Appointment) *models.BlockedTime {
	id := ap.ID
	return &models.BlockedTime{
		BusinessID:    ap.BusinessID,
		ResourceID:    ap.ResourceID,
		AppointmentID: &id,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Reason:        "appointment",
	}
}

// parseWindow reads "2006-01-02" + "15:04" in loc.
func parseWindow(loc *time.Location, date, hm string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hm, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return t, nil
}

func (d Deps) notify(ctx context.Context, ap *models.Appointment, kind notify.Kind, data map[string]any) {
	msg := notify.Message{
		BusinessID:    ap.BusinessID,
		AppointmentID: ap.ID,
		Kind:          kind,
		Data:          data,
	}
	if err := d.Notifier.Notify(ctx, msg); err != nil {
		d.Logger.Warn("notification not enqueued",
			zap.String("kind", string(kind)),
			zap.Uint("appointment_id", ap.ID),
			zap.Error(err),
		)
	}
}

func (d Deps) audit(businessID uint, userID *uint, action string, ap *models.Appointment, meta map[string]any) {
	ev := audit.Event{
		BusinessID: businessID,
		UserID:     userID,
		Action:     action,
		Entity:     "appointment",
		Metadata:   meta,
	}
	if ap != nil && ap.ID != 0 {
		id := ap.ID
		ev.EntityID = &id
	}
	d.Audit.Dispatch(ev)
}

// auditConflict records refused windows; other errors are left to the caller.
func (d Deps) auditConflict(businessID uint, userID *uint, ap *models.Appointment, start, end time.Time, err error) {
	reason, ok := schedule.ConflictReason(err)
	if !ok {
		return
	}
	d.audit(businessID, userID, "appointment_conflict", ap, map[string]any{
		"reason": string(reason),
		"start":  start.Format(time.RFC3339),
		"end":    end.Format(time.RFC3339),
	})
}

func windowOf(ap *models.Appointment) interval.Interval {
	return interval.New(ap.StartTime, ap.EndTime)
}
