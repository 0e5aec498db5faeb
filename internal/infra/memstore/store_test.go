package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

func block(resourceID uint, h int) *models.BlockedTime {
	return &models.BlockedTime{
		BusinessID: 1,
		ResourceID: resourceID,
		StartTime:  time.Date(2026, 3, 2, h, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 2, h+1, 0, 0, 0, time.UTC),
	}
}

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	s := New()

	entered := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)

	go func() {
		txDone <- s.WithinTx(ctx, func(tx schedule.Repository) error {
			if err := tx.InsertBlockedTime(ctx, block(1, 9)); err != nil {
				return err
			}
			close(entered)
			<-release
			return errors.New("abort")
		})
	}()
	<-entered

	outside := make(chan error, 1)
	go func() {
		outside <- s.InsertBlockedTime(ctx, block(99, 10))
	}()

	// give the outside write time to queue behind the transaction
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := <-txDone; err == nil {
		t.Fatal("transaction should report its error")
	}
	if err := <-outside; err != nil {
		t.Fatal(err)
	}

	if n := len(s.BlockedTimes(1, 99)); n != 1 {
		t.Fatalf("expected the outside block to survive the rollback, got %d", n)
	}
	if n := len(s.BlockedTimes(1, 1)); n != 0 {
		t.Fatalf("expected the transaction's block to be rolled back, got %d", n)
	}
}

func TestCommitKeepsTransactionWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.WithinTx(ctx, func(tx schedule.Repository) error {
		if err := tx.InsertBlockedTime(ctx, block(1, 9)); err != nil {
			return err
		}
		// nested calls join the running transaction
		return tx.WithinTx(ctx, func(inner schedule.Repository) error {
			return inner.InsertBlockedTime(ctx, block(1, 11))
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(s.BlockedTimes(1, 1)); n != 2 {
		t.Fatalf("expected 2 blocks, got %d", n)
	}
}

func TestFailReachesEveryWrite(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	cases := []struct {
		op   string
		call func(r schedule.Repository) error
	}{
		{"InsertBlockedTime", func(r schedule.Repository) error {
			return r.InsertBlockedTime(ctx, block(1, 9))
		}},
		{"DeleteBlockedTime", func(r schedule.Repository) error {
			_, err := r.DeleteBlockedTime(ctx, schedule.BlockedTimeMatch{BusinessID: 1, ResourceID: 1})
			return err
		}},
		{"DeleteManualBlockedTime", func(r schedule.Repository) error {
			_, err := r.DeleteManualBlockedTime(ctx, 1, 1, 1)
			return err
		}},
		{"ReplaceWorkingHours", func(r schedule.Repository) error {
			return r.ReplaceWorkingHours(ctx, 1, 1, nil)
		}},
		{"UpdateResourcePhoto", func(r schedule.Repository) error {
			return r.UpdateResourcePhoto(ctx, 1, 1, "https://cdn.test/a.webp")
		}},
		{"GetOrCreateCustomer", func(r schedule.Repository) error {
			_, err := r.GetOrCreateCustomer(ctx, 1, "Bia", "11988887777", "")
			return err
		}},
		{"CreateAppointment", func(r schedule.Repository) error {
			return r.CreateAppointment(ctx, &models.Appointment{BusinessID: 1, ResourceID: 1})
		}},
		{"UpdateAppointment", func(r schedule.Repository) error {
			return r.UpdateAppointment(ctx, &models.Appointment{ID: 1})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			s := New()
			s.Fail(tc.op, boom)

			err := tc.call(s)
			if !schedule.IsRepository(err) || !errors.Is(err, boom) {
				t.Fatalf("expected repository error, got %v", err)
			}

			var inTx error
			_ = s.WithinTx(ctx, func(tx schedule.Repository) error {
				inTx = tc.call(tx)
				return inTx
			})
			if !schedule.IsRepository(inTx) {
				t.Fatalf("expected repository error inside a transaction, got %v", inTx)
			}
		})
	}
}
