// Package calendar keeps a live local copy of the communication-event
// calendar: an in-memory event store, the reconciliation logic that applies
// server notifications to it, and the past/upcoming projections the calendar
// views render from.
package calendar

import (
	"github.com/groblegark/commtrack/internal/model"
)

// EventStore is an ordered in-memory collection of communication events with
// at most one record per ID. It is not safe for concurrent use; the View owns
// a store and serializes all access through its dispatch loop.
type EventStore struct {
	order []string
	byID  map[string]*model.CommEvent
}

func NewEventStore() *EventStore {
	return &EventStore{byID: make(map[string]*model.CommEvent)}
}

// Len returns the number of events in the store.
func (s *EventStore) Len() int { return len(s.order) }

// Get returns the event with the given ID, or nil if absent.
func (s *EventStore) Get(id string) *model.CommEvent {
	return s.byID[id]
}

// Events returns the stored events in insertion order. The returned slice is
// a copy; the event pointers are shared.
func (s *EventStore) Events() []*model.CommEvent {
	out := make([]*model.CommEvent, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// ApplyRemoteCreate upserts the event by ID. A repeated creation notification
// for an ID already in the store replaces that record in place rather than
// appending a duplicate; this also confirms an optimistic local create when
// the server echoes it back. Returns true when the event was newly added.
func (s *EventStore) ApplyRemoteCreate(e *model.CommEvent) bool {
	if e == nil || e.ID == "" {
		return false
	}
	if _, ok := s.byID[e.ID]; ok {
		s.byID[e.ID] = e
		return false
	}
	s.byID[e.ID] = e
	s.order = append(s.order, e.ID)
	return true
}

// ApplyRemoteUpdate replaces the record whose ID matches. An update for an
// unknown ID is dropped; no record is created. Returns true when a record
// was replaced.
func (s *EventStore) ApplyRemoteUpdate(e *model.CommEvent) bool {
	if e == nil || e.ID == "" {
		return false
	}
	if _, ok := s.byID[e.ID]; !ok {
		return false
	}
	s.byID[e.ID] = e
	return true
}

// ApplyRemoteDelete removes the record with the given ID. Deleting an unknown
// ID is a no-op. Returns true when a record was removed.
func (s *EventStore) ApplyRemoteDelete(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
