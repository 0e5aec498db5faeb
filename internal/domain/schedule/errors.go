package schedule

import (
	"errors"

	"github.com/BruksfildServices01/booking-availability/internal/httperr"
)

// Reason names why a window cannot be booked.
type Reason string

const (
	ReasonNotWorkingDay       Reason = "not_working_day"
	ReasonOutsideWorkingHours Reason = "outside_working_hours"
	ReasonBreakConflict       Reason = "break_conflict"
	ReasonBlockedConflict     Reason = "blocked_conflict"
	ReasonAppointmentConflict Reason = "appointment_conflict"
)

type ConflictError struct {
	Reason Reason
}

func (e *ConflictError) Error() string {
	return "slot_unavailable: " + string(e.Reason)
}

func Conflict(reason Reason) error {
	return &ConflictError{Reason: reason}
}

// ConflictReason extracts the reason of a ConflictError in err's chain.
func ConflictReason(err error) (Reason, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason, true
	}
	return "", false
}

func IsConflict(err error) bool {
	_, ok := ConflictReason(err)
	return ok
}

// RepositoryError is a failed store call. It is never retried here.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func IsRepository(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re)
}

var (
	ErrNotFound      = errors.New("not_found")
	ErrInvalidWindow = httperr.ErrBusiness("invalid_window")
)
