package model

import "time"

// OverdueSnapshot is one datapoint of the overdue-communications trend:
// how many companies had an overdue next communication on a given day.
type OverdueSnapshot struct {
	Date         time.Time `json:"date"`
	OverdueCount int       `json:"overdue_count"`
}

// DashboardRow is the per-company summary shown on the user dashboard.
type DashboardRow struct {
	Company *Company `json:"company"`

	// LastCommunications holds up to the five most recent past events.
	LastCommunications []*CommEvent `json:"last_communications"`

	// NextCommunication is the earliest upcoming event, nil when none is scheduled.
	NextCommunication *CommEvent `json:"next_communication,omitempty"`

	// Overdue and DueToday are computed against the request time and are
	// always false when the company has highlighting disabled.
	Overdue  bool `json:"overdue"`
	DueToday bool `json:"due_today"`
}
