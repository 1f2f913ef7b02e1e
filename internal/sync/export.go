package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	CompanyCount int       `json:"company_count"`
	MethodCount  int       `json:"method_count"`
	EventCount   int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all companies, methods, and events from the store as
// JSONL to w. Companies and events are sorted by ID so repeated exports of
// the same data are byte-identical.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	companies, err := s.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].ID < companies[j].ID
	})

	methods, err := s.ListMethods(ctx)
	if err != nil {
		return fmt.Errorf("list methods: %w", err)
	}

	// Fetch all events (no filter, no limit).
	events, _, err := s.ListEvents(ctx, model.EventFilter{Sort: "created_at"})
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID < events[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		CompanyCount: len(companies),
		MethodCount:  len(methods),
		EventCount:   len(events),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range companies {
		if err := enc.Encode(record{Type: "company", Data: c}); err != nil {
			return fmt.Errorf("encode company %s: %w", c.ID, err)
		}
	}
	for _, m := range methods {
		if err := enc.Encode(record{Type: "method", Data: m}); err != nil {
			return fmt.Errorf("encode method %s: %w", m.ID, err)
		}
	}
	for _, e := range events {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
	}

	return nil
}
