package model

import "time"

// EventFilter holds criteria for querying communication events.
type EventFilter struct {
	CompanyID string        `json:"company_id,omitempty"`
	Method    []string      `json:"method,omitempty"`
	Status    []EventStatus `json:"status,omitempty"`
	From      *time.Time    `json:"from,omitempty"` // inclusive lower date bound
	To        *time.Time    `json:"to,omitempty"`   // exclusive upper date bound
	Search    string        `json:"search,omitempty"` // substring match on notes
	Sort      string        `json:"sort,omitempty"`   // e.g. "-date", "created_at"; prefix "-" = descending
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}
