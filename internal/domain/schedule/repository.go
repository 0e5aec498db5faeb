package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

// Reader is what the availability engine consumes. Each call is an
// independent round trip to the store.
type Reader interface {
	GetWorkingHours(
		ctx context.Context,
		businessID uint,
		resourceID uint,
	) ([]WorkingHours, error)

	GetBlockedTimes(
		ctx context.Context,
		businessID uint,
		resourceID uint,
		rangeStart time.Time,
		rangeEnd time.Time,
	) ([]models.BlockedTime, error)

	GetAppointmentsOnDate(
		ctx context.Context,
		businessID uint,
		resourceID uint,
		day interval.Interval,
		statuses []appointment.Status,
	) ([]models.Appointment, error)
}

// BlockedTimeMatch selects the block a confirmed appointment owns.
type BlockedTimeMatch struct {
	BusinessID    uint
	ResourceID    uint
	AppointmentID uint
	Start         time.Time
	End           time.Time
}

type Repository interface {
	Reader

	// -------- Business / catalog --------
	GetBusiness(ctx context.Context, id uint) (*models.Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
	GetResource(ctx context.Context, businessID, resourceID uint) (*models.Resource, error)
	GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)
	UpdateResourcePhoto(ctx context.Context, businessID, resourceID uint, url string) error

	GetOrCreateCustomer(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Appointments --------
	GetAppointment(ctx context.Context, businessID, appointmentID uint) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		businessID uint,
		resourceID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Blocked times --------
	InsertBlockedTime(ctx context.Context, bt *models.BlockedTime) error
	DeleteBlockedTime(ctx context.Context, match BlockedTimeMatch) (int64, error)
	DeleteManualBlockedTime(ctx context.Context, businessID, resourceID, id uint) (int64, error)

	// -------- Working hours --------
	ReplaceWorkingHours(ctx context.Context, businessID, resourceID uint, week []WorkingHours) error

	// -------- Serialization --------

	// LockResource holds the resource row until the surrounding transaction ends.
	LockResource(ctx context.Context, businessID, resourceID uint) error

	// WithinTx runs fn against a transactional view; any error rolls back
	// every write fn made.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}
