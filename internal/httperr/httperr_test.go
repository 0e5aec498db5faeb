package httperr

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsBusinessWrapped(t *testing.T) {
	err := fmt.Errorf("confirm: %w", ErrBusiness("invalid_state"))
	if !IsBusiness(err, "invalid_state") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "other") {
		t.Fatal("code must match exactly")
	}
	code, ok := BusinessCode(err)
	if !ok || code != "invalid_state" {
		t.Fatalf("unexpected code %q %v", code, ok)
	}
}

func TestIsExclusionConflict(t *testing.T) {
	if !IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})) {
		t.Fatal("23P01 must be an exclusion conflict")
	}
	if !IsExclusionConflict(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 must be treated as a conflict")
	}
	if IsExclusionConflict(&pgconn.PgError{Code: "40001"}) {
		t.Fatal("serialization failure is not a conflict")
	}
	if IsExclusionConflict(fmt.Errorf("boom")) {
		t.Fatal("plain errors are not conflicts")
	}
}
