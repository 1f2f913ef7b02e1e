package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/commtrack/internal/events"
	"github.com/groblegark/commtrack/internal/idgen"
	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// createEventInput is the JSON body for POST /v1/events.
// ID is optional: clients that create events optimistically send their own
// nanoid so that retries and replays are idempotent.
type createEventInput struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Method    string    `json:"method"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes"`
	CreatedBy string    `json:"created_by"`
}

// updateEventInput is the JSON body for PATCH /v1/events/{id}.
type updateEventInput struct {
	CompanyID *string    `json:"company_id"`
	Method    *string    `json:"method"`
	Date      *time.Time `json:"date"`
	Notes     *string    `json:"notes"`
	Status    *string    `json:"status"`
}

// handleCreateEvent handles POST /v1/events.
// Creation is idempotent by ID: posting an event whose ID already exists
// returns the stored event with 200 instead of inserting a duplicate.
func (s *CommServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in createEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	event := &model.CommEvent{
		ID:        in.ID,
		CompanyID: in.CompanyID,
		Method:    in.Method,
		Date:      model.DateOnly(in.Date),
		Notes:     in.Notes,
		Status:    model.StatusConfirmed,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := model.ValidateEvent(event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if event.ID == "" {
		id, err := idgen.Generate(idgen.PrefixEvent)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate id")
			return
		}
		event.ID = id
	}

	inserted, err := s.store.CreateEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, store.ErrUnknownMethod) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	if !inserted {
		// ID already exists: return the stored event unchanged.
		existing, err := s.store.GetEvent(r.Context(), event.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get event")
			return
		}
		writeJSON(w, http.StatusOK, existing)
		return
	}

	// Re-read to pick up the denormalized company name.
	stored, err := s.store.GetEvent(r.Context(), event.ID)
	if err == nil {
		event = stored
	}

	s.publish(r.Context(), events.TopicEventCreated, events.EventCreated{Event: event})

	writeJSON(w, http.StatusCreated, event)
}

// handleListEvents handles GET /v1/events.
func (s *CommServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EventFilter{
		CompanyID: q.Get("company_id"),
		Search:    q.Get("search"),
		Sort:      q.Get("sort"),
	}

	if v := q.Get("method"); v != "" {
		filter.Method = strings.Split(v, ",")
	}
	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.EventStatus(st))
		}
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		} else if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.From = &d
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		} else if d, err := time.Parse("2006-01-02", v); err == nil {
			filter.To = &d
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	evts, total, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	// Ensure events is never null in JSON output.
	if evts == nil {
		evts = []*model.CommEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": evts,
		"total":  total,
	})
}

// handleGetEvent handles GET /v1/events/{id}.
func (s *CommServer) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// handleUpdateEvent handles PATCH /v1/events/{id}.
func (s *CommServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	changes := make(map[string]any)
	if in.CompanyID != nil {
		event.CompanyID = *in.CompanyID
		changes["company_id"] = *in.CompanyID
	}
	if in.Method != nil {
		event.Method = *in.Method
		changes["method"] = *in.Method
	}
	if in.Date != nil {
		event.Date = model.DateOnly(*in.Date)
		changes["date"] = event.Date
	}
	if in.Notes != nil {
		event.Notes = *in.Notes
		changes["notes"] = *in.Notes
	}
	if in.Status != nil {
		event.Status = model.EventStatus(*in.Status)
		changes["status"] = *in.Status
	}

	if err := model.ValidateEvent(event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	s.publish(r.Context(), events.TopicEventUpdated, events.EventUpdated{Event: event, Changes: changes})

	writeJSON(w, http.StatusOK, event)
}

// handleDeleteEvent handles DELETE /v1/events/{id}.
func (s *CommServer) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	s.publish(r.Context(), events.TopicEventDeleted, events.EventDeleted{EventID: id})

	w.WriteHeader(http.StatusNoContent)
}
