package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

func TestOccupies(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed} {
		if !s.Occupies() {
			t.Fatalf("%s should occupy time", s)
		}
	}
	for _, s := range []Status{StatusCancelled, StatusCompleted, StatusNoShow, StatusRescheduled, StatusPaid, StatusRejected} {
		if s.Occupies() {
			t.Fatalf("%s should not occupy time", s)
		}
	}
}

func TestCancelTwice(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}
	now := time.Now()

	if err := Cancel(ap, now, "customer request"); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if ap.Status != string(StatusCancelled) || ap.CancelledAt == nil {
		t.Fatalf("appointment not cancelled: %+v", ap)
	}

	err := Cancel(ap, now, "again")
	if !httperr.IsBusiness(err, "already_cancelled") {
		t.Fatalf("expected already_cancelled, got %v", err)
	}
	if ap.CancelReason != "customer request" {
		t.Fatal("second cancel must not touch the appointment")
	}
}

func TestConfirmOnlyPending(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	if err := Confirm(ap, time.Now()); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if err := Confirm(ap, time.Now()); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	if err := Complete(ap, time.Now()); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestRefundOwed(t *testing.T) {
	pid := int64(42)
	ap := &models.Appointment{PaymentID: &pid, AmountPaid: 50}
	if !RefundOwed(ap) {
		t.Fatal("paid appointment should owe a refund")
	}

	now := time.Now()
	ap.RefundedAt = &now
	if RefundOwed(ap) {
		t.Fatal("refunded appointment should not owe a refund")
	}

	if RefundOwed(&models.Appointment{}) {
		t.Fatal("unpaid appointment should not owe a refund")
	}
}
