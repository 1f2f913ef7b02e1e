package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/groblegark/commtrack/internal/events"
	"github.com/groblegark/commtrack/internal/idgen"
	"github.com/groblegark/commtrack/internal/model"
)

// createMethodInput is the JSON body for POST /v1/methods.
type createMethodInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
	Mandatory   bool   `json:"mandatory"`
}

// handleCreateMethod handles POST /v1/methods.
func (s *CommServer) handleCreateMethod(w http.ResponseWriter, r *http.Request) {
	var in createMethodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	method := &model.Method{
		Name:        in.Name,
		Description: in.Description,
		Sequence:    in.Sequence,
		Mandatory:   in.Mandatory,
		CreatedAt:   time.Now().UTC(),
	}

	if err := model.ValidateMethod(method); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := idgen.Generate(idgen.PrefixMethod)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}
	method.ID = id

	if err := s.store.CreateMethod(r.Context(), method); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create method")
		return
	}

	s.publish(r.Context(), events.TopicMethodCreated, events.MethodCreated{Method: method})

	writeJSON(w, http.StatusCreated, method)
}

// handleListMethods handles GET /v1/methods.
func (s *CommServer) handleListMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := s.store.ListMethods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list methods")
		return
	}

	if methods == nil {
		methods = []*model.Method{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"methods": methods,
		"total":   len(methods),
	})
}

// handleDeleteMethod handles DELETE /v1/methods/{id}.
func (s *CommServer) handleDeleteMethod(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteMethod(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "method not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete method")
		return
	}

	s.publish(r.Context(), events.TopicMethodDeleted, events.MethodDeleted{MethodID: id})

	w.WriteHeader(http.StatusNoContent)
}
