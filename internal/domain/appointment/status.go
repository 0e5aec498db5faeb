package appointment

import "github.com/BruksfildServices01/booking-availability/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
	StatusPaid        Status = "paid"
	StatusRejected    Status = "rejected"
)

// OccupyingStatuses are the statuses that hold the resource's time.
var OccupyingStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted,
		StatusNoShow, StatusRescheduled, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel rejects a second cancel explicitly so callers never repeat the
// blocked-time cleanup.
func CanCancel(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed:
		return nil
	case StatusCancelled:
		return httperr.ErrBusiness("already_cancelled")
	}
	return httperr.ErrBusiness("invalid_state")
}

func CanReschedule(current Status) error {
	if !current.Occupies() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
