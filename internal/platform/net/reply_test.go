package net

import (
	"net/http"
	"testing"

	perr "fieldnote/internal/platform/errors"
)

func TestOKAndCreated(t *testing.T) {
	st, w := OK(map[string]int{"inserted": 2}, "r1")
	if st != http.StatusOK || w.Status != "OK" || w.RequestID != "r1" || w.Data == nil {
		t.Fatalf("OK = %d %+v", st, w)
	}
	if st, _ := Created(nil, ""); st != http.StatusCreated {
		t.Fatalf("Created = %d", st)
	}
	if st, w := NoContent("r2"); st != http.StatusNoContent || w.Data != nil {
		t.Fatalf("NoContent = %d %+v", st, w)
	}
}

func TestErrorEnvelope(t *testing.T) {
	err := perr.WithField(perr.Validationf("invalid kit id %q (expected EC-####)", "EC-12"), "kit_id")
	st, w := Error(err, "r3")
	if st != http.StatusBadRequest || w.Code != perr.ErrorCodeValidation || w.Field != "kit_id" {
		t.Fatalf("Error = %d %+v", st, w)
	}
	if w.Error != `invalid kit id "EC-12" (expected EC-####)` {
		t.Fatalf("message = %q", w.Error)
	}
	if st, _ := Error(nil, ""); st != http.StatusOK {
		t.Fatalf("nil error status = %d", st)
	}
}
