package model

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateCompany checks a Company for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the company is valid.
func ValidateCompany(c *Company) error {
	var ve ValidationError

	name := strings.TrimSpace(c.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 200 characters or fewer"})
	}

	if c.PeriodicityDays < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "periodicity_days",
			Message: fmt.Sprintf("must be non-negative, got %d", c.PeriodicityDays),
		})
	}

	for i, addr := range c.Emails {
		if addr == "" {
			continue
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("emails[%d]", i),
				Message: fmt.Sprintf("invalid address %q", addr),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateMethod checks a Method for constraint violations.
func ValidateMethod(m *Method) error {
	var ve ValidationError

	if strings.TrimSpace(m.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}
	if m.Sequence < 1 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "sequence",
			Message: fmt.Sprintf("must be 1 or greater, got %d", m.Sequence),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateEvent checks a CommEvent for constraint violations.
// Referential checks (company exists, method is in the catalog) are the
// store's job; this validates shape only.
func ValidateEvent(e *CommEvent) error {
	var ve ValidationError

	if strings.TrimSpace(e.CompanyID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "company_id", Message: "is required"})
	}
	if strings.TrimSpace(e.Method) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "method", Message: "is required"})
	}
	if e.Date.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "date", Message: "is required"})
	}
	if !e.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", e.Status),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
