package db

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestBackfillTimezones(t *testing.T) {
	if err := backfillTimezones(dryRun(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBackfillTimezonesReportsFailure(t *testing.T) {
	db := dryRun(t)
	boom := errors.New("relation \"businesses\" does not exist")

	err := db.Callback().Raw().Before("gorm:raw").Register("test:fail_raw", func(tx *gorm.DB) {
		if strings.Contains(tx.Statement.SQL.String(), "UPDATE businesses") {
			_ = tx.AddError(boom)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	err = backfillTimezones(db)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the backfill error, got %v", err)
	}
}
