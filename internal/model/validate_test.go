package model

import (
	"strings"
	"testing"
	"time"
)

// validCompany returns a Company that passes all validation rules.
func validCompany() Company {
	return Company{
		Name:            "Acme",
		Location:        "Springfield",
		Emails:          []string{"hello@acme.test"},
		PeriodicityDays: 14,
	}
}

// validEvent returns a CommEvent that passes all validation rules.
func validEvent() CommEvent {
	return CommEvent{
		ID:        "ev-abc123",
		CompanyID: "co-abc123",
		Method:    MethodEmail,
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    StatusConfirmed,
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateCompany_NameRequired(t *testing.T) {
	c := validCompany()
	c.Name = "  \t "
	errs := fieldErrors(t, ValidateCompany(&c))
	if !hasFieldError(errs, "name") {
		t.Error("expected error on field 'name' for blank name")
	}
}

func TestValidateCompany_NameTooLong(t *testing.T) {
	c := validCompany()
	c.Name = strings.Repeat("a", 201)
	errs := fieldErrors(t, ValidateCompany(&c))
	if !hasFieldError(errs, "name") {
		t.Error("expected error on field 'name' for name exceeding 200 chars")
	}
}

func TestValidateCompany_NegativePeriodicity(t *testing.T) {
	c := validCompany()
	c.PeriodicityDays = -3
	errs := fieldErrors(t, ValidateCompany(&c))
	if !hasFieldError(errs, "periodicity_days") {
		t.Error("expected error on field 'periodicity_days'")
	}
}

func TestValidateCompany_BadEmail(t *testing.T) {
	c := validCompany()
	c.Emails = []string{"hello@acme.test", "not-an-address"}
	errs := fieldErrors(t, ValidateCompany(&c))
	if !hasFieldError(errs, "emails[1]") {
		t.Error("expected error on field 'emails[1]'")
	}
}

func TestValidateCompany_EmptyEmailSlotAllowed(t *testing.T) {
	c := validCompany()
	c.Emails = []string{""}
	if err := ValidateCompany(&c); err != nil {
		t.Errorf("expected empty email slot to be skipped, got %v", err)
	}
}

func TestValidateMethod(t *testing.T) {
	m := Method{Name: "Webinar", Sequence: 6}
	if err := ValidateMethod(&m); err != nil {
		t.Errorf("expected valid method, got %v", err)
	}

	m.Name = ""
	m.Sequence = 0
	errs := fieldErrors(t, ValidateMethod(&m))
	if !hasFieldError(errs, "name") {
		t.Error("expected error on field 'name'")
	}
	if !hasFieldError(errs, "sequence") {
		t.Error("expected error on field 'sequence'")
	}
}

func TestValidateEvent_RequiredFields(t *testing.T) {
	e := CommEvent{Status: StatusPending}
	errs := fieldErrors(t, ValidateEvent(&e))
	for _, field := range []string{"company_id", "method", "date"} {
		if !hasFieldError(errs, field) {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestValidateEvent_BadStatus(t *testing.T) {
	e := validEvent()
	e.Status = "done"
	errs := fieldErrors(t, ValidateEvent(&e))
	if !hasFieldError(errs, "status") {
		t.Error("expected error on field 'status'")
	}
}

func TestValidateEvent_Valid(t *testing.T) {
	e := validEvent()
	if err := ValidateEvent(&e); err != nil {
		t.Errorf("expected valid event, got %v", err)
	}
}
