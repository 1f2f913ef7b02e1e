package model

import "time"

// Company is a counterparty record in the admin-managed directory.
type Company struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	LinkedIn string   `json:"linkedin,omitempty"`
	Emails   []string `json:"emails,omitempty"`
	Phones   []string `json:"phones,omitempty"`
	Comments string   `json:"comments,omitempty"`

	// PeriodicityDays is the expected number of days between communications
	// with this company. Zero means no cadence is enforced.
	PeriodicityDays int `json:"periodicity_days,omitempty"`

	// HighlightDisabled suppresses overdue/due-today highlighting for this
	// company on the dashboard and in notifications.
	HighlightDisabled bool `json:"highlight_disabled,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
