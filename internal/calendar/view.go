package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/commtrack/internal/client"
	"github.com/groblegark/commtrack/internal/events"
	"github.com/groblegark/commtrack/internal/idgen"
	"github.com/groblegark/commtrack/internal/model"
)

// API is the slice of the server client the calendar view uses.
type API interface {
	Streamer
	ListEvents(ctx context.Context, req *client.ListEventsRequest) (*client.ListEventsResponse, error)
	CreateEvent(ctx context.Context, req *client.CreateEventRequest) (*model.CommEvent, error)
}

// Draft is a locally composed communication event before it has an ID.
type Draft struct {
	CompanyID   string
	CompanyName string
	Method      string
	Date        time.Time
	Notes       string
}

// View is a live calendar: an event store kept in sync with the server via
// the event stream, plus optimistic local creation. All store mutation is
// serialized under the view's lock, whether it originates from the dispatch
// goroutine or from a local submit, so reads always see a consistent store.
type View struct {
	api       API
	companyID string // optional filter; empty means all companies

	mu     sync.Mutex
	store  *EventStore
	closed bool

	channel *Channel
	pending sync.WaitGroup
}

// NewView builds a calendar view. companyID narrows the view to one company;
// pass "" for the whole calendar.
func NewView(api API, companyID string) *View {
	v := &View{api: api, companyID: companyID, store: NewEventStore()}
	topics := []string{events.TopicEventCreated, events.TopicEventUpdated, events.TopicEventDeleted}
	v.channel = NewChannel(api, topics, v.handle)
	return v
}

// Open loads the current events from the server and then subscribes to live
// updates. Subscribing before applying the snapshot would be racier; loading
// first and replaying from the stream start keeps the window small, and the
// upsert semantics of creation notifications make any overlap harmless.
func (v *View) Open(ctx context.Context) error {
	if err := v.channel.Open(ctx); err != nil {
		return err
	}

	resp, err := v.api.ListEvents(ctx, &client.ListEventsRequest{CompanyID: v.companyID})
	if err != nil {
		v.channel.Close()
		return err
	}

	v.mu.Lock()
	for _, e := range resp.Events {
		v.store.ApplyRemoteCreate(e)
	}
	v.mu.Unlock()
	return nil
}

// handle is the single dispatch function for inbound notifications.
// Malformed payloads and notifications for unknown IDs are dropped; the
// server is authoritative and a stale miss is not an error.
func (v *View) handle(n client.Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	switch n.Topic {
	case events.TopicEventCreated:
		var payload events.EventCreated
		if err := json.Unmarshal(n.Data, &payload); err != nil || payload.Event == nil {
			slog.Warn("dropping malformed creation notification", "error", err)
			return
		}
		if !v.wants(payload.Event) {
			return
		}
		v.store.ApplyRemoteCreate(payload.Event)
	case events.TopicEventUpdated:
		var payload events.EventUpdated
		if err := json.Unmarshal(n.Data, &payload); err != nil || payload.Event == nil {
			slog.Warn("dropping malformed update notification", "error", err)
			return
		}
		if !v.wants(payload.Event) {
			// The update may have moved the event out of this view's
			// company; treat that as a removal.
			v.store.ApplyRemoteDelete(payload.Event.ID)
			return
		}
		v.store.ApplyRemoteUpdate(payload.Event)
	case events.TopicEventDeleted:
		var payload events.EventDeleted
		if err := json.Unmarshal(n.Data, &payload); err != nil || payload.EventID == "" {
			slog.Warn("dropping malformed deletion notification", "error", err)
			return
		}
		v.store.ApplyRemoteDelete(payload.EventID)
	}
}

func (v *View) wants(e *model.CommEvent) bool {
	return v.companyID == "" || e.CompanyID == v.companyID
}

// SubmitLocalCreate applies the draft to the store immediately with a
// pending status and a client-generated ID, then sends the creation request
// to the server in the background. When the server accepts, the record is
// confirmed (the server may also echo it back on the stream; the upsert by
// ID makes that benign). A definite rejection marks the record failed so the
// caller can surface it and discard it. The returned record is a snapshot;
// poll Get for the lifecycle outcome.
func (v *View) SubmitLocalCreate(ctx context.Context, draft Draft) (*model.CommEvent, error) {
	id, err := idgen.Generate(idgen.PrefixEvent)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ev := &model.CommEvent{
		ID:          id,
		CompanyID:   draft.CompanyID,
		CompanyName: draft.CompanyName,
		Method:      draft.Method,
		Date:        model.DateOnly(draft.Date),
		Notes:       draft.Notes,
		Status:      model.StatusPending,
		CreatedAt:   now,
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, errors.New("calendar: view is closed")
	}
	v.store.ApplyRemoteCreate(ev)
	v.pending.Add(1)
	v.mu.Unlock()

	out := *ev
	go v.sendCreate(ctx, ev)
	return &out, nil
}

func (v *View) sendCreate(ctx context.Context, ev *model.CommEvent) {
	defer v.pending.Done()

	created, err := v.api.CreateEvent(ctx, &client.CreateEventRequest{
		ID:        ev.ID,
		CompanyID: ev.CompanyID,
		Method:    ev.Method,
		Date:      ev.Date,
		Notes:     ev.Notes,
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	stored := v.store.Get(ev.ID)
	if stored == nil {
		// Deleted remotely while in flight; nothing left to reconcile.
		return
	}
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			// Replace rather than write through the stored pointer: records
			// already handed to callers must never change underneath them.
			failed := *stored
			failed.Status = model.StatusFailed
			v.store.ApplyRemoteUpdate(&failed)
			slog.Warn("communication rejected by server", "id", ev.ID, "error", apiErr.Message)
			return
		}
		// Transport failure: the request may or may not have landed. Leave
		// the record pending so a later stream echo can confirm it.
		slog.Warn("communication create not acknowledged", "id", ev.ID, "error", err)
		return
	}
	if stored.Status == model.StatusPending {
		created.CompanyName = ev.CompanyName
		v.store.ApplyRemoteUpdate(created)
	}
}

// DiscardFailed removes a locally created record that the server rejected.
// Only failed records may be discarded; confirmed and pending records are
// left to the normal remote lifecycle.
func (v *View) DiscardFailed(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	e := v.store.Get(id)
	if e == nil || e.Status != model.StatusFailed {
		return false
	}
	return v.store.ApplyRemoteDelete(id)
}

// Get returns a copy of the stored event with the given ID, or nil.
func (v *View) Get(id string) *model.CommEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	e := v.store.Get(id)
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

// Events returns a snapshot of the store in insertion order. The records are
// copies, safe to read while the view keeps reconciling.
func (v *View) Events() []*model.CommEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	evts := v.store.Events()
	out := make([]*model.CommEvent, len(evts))
	for i, e := range evts {
		c := *e
		out[i] = &c
	}
	return out
}

// Projection splits the store into past and upcoming relative to now.
func (v *View) Projection(now time.Time) Projection {
	return Project(v.Events(), now)
}

// State reports the live channel's lifecycle state.
func (v *View) State() ChannelState {
	return v.channel.State()
}

// Close tears the view down: the channel is closed unconditionally, in-flight
// local creates are waited out, and the store stops accepting mutations. No
// notification received after Close returns can alter the store.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.channel.Close()
	v.pending.Wait()
}
