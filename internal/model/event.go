package model

import "time"

// EventStatus tracks the optimistic-creation lifecycle of a communication
// event. Records created locally start as pending and become confirmed once
// the server has accepted them; a definite server rejection marks them failed.
type EventStatus string

const (
	StatusPending   EventStatus = "pending"
	StatusConfirmed EventStatus = "confirmed"
	StatusFailed    EventStatus = "failed"
)

// String returns the string representation of the status.
func (s EventStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed:
		return true
	}
	return false
}

// CommEvent is a single scheduled or logged communication with a company.
// Date is day-granularity: the stored value is always midnight UTC.
type CommEvent struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"company_id"`
	Method    string      `json:"method"`
	Date      time.Time   `json:"date"`
	Notes     string      `json:"notes,omitempty"`
	Status    EventStatus `json:"status"`
	CreatedBy string      `json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// CompanyName is denormalized for display; populated by queries, not
	// stored on the events table.
	CompanyName string `json:"company_name,omitempty"`
}

// Title composes the display string used by calendar renderings.
func (e *CommEvent) Title() string {
	return e.Method + " - " + e.CompanyName
}

// DateOnly truncates t to midnight UTC, the canonical form for event dates.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
