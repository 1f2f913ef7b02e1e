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

// createCompanyInput is the JSON body for POST /v1/companies.
type createCompanyInput struct {
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	LinkedIn          string   `json:"linkedin"`
	Emails            []string `json:"emails"`
	Phones            []string `json:"phones"`
	Comments          string   `json:"comments"`
	PeriodicityDays   int      `json:"periodicity_days"`
	HighlightDisabled bool     `json:"highlight_disabled"`
}

// updateCompanyInput is the JSON body for PATCH /v1/companies/{id}.
// Nil pointers mean "leave unchanged".
type updateCompanyInput struct {
	Name              *string   `json:"name"`
	Location          *string   `json:"location"`
	LinkedIn          *string   `json:"linkedin"`
	Emails            *[]string `json:"emails"`
	Phones            *[]string `json:"phones"`
	Comments          *string   `json:"comments"`
	PeriodicityDays   *int      `json:"periodicity_days"`
	HighlightDisabled *bool     `json:"highlight_disabled"`
}

// handleCreateCompany handles POST /v1/companies.
func (s *CommServer) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var in createCompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	company := &model.Company{
		Name:              in.Name,
		Location:          in.Location,
		LinkedIn:          in.LinkedIn,
		Emails:            in.Emails,
		Phones:            in.Phones,
		Comments:          in.Comments,
		PeriodicityDays:   in.PeriodicityDays,
		HighlightDisabled: in.HighlightDisabled,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := model.ValidateCompany(company); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := idgen.Generate(idgen.PrefixCompany)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}
	company.ID = id

	if err := s.store.CreateCompany(r.Context(), company); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create company")
		return
	}

	s.publish(r.Context(), events.TopicCompanyCreated, events.CompanyCreated{Company: company})

	writeJSON(w, http.StatusCreated, company)
}

// handleListCompanies handles GET /v1/companies.
func (s *CommServer) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list companies")
		return
	}

	// Ensure companies is never null in JSON output.
	if companies == nil {
		companies = []*model.Company{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     len(companies),
	})
}

// handleGetCompany handles GET /v1/companies/{id}.
func (s *CommServer) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	company, err := s.store.GetCompany(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get company")
		return
	}

	writeJSON(w, http.StatusOK, company)
}

// handleUpdateCompany handles PATCH /v1/companies/{id}.
func (s *CommServer) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateCompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	company, err := s.store.GetCompany(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get company")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		company.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Location != nil {
		company.Location = *in.Location
		changes["location"] = *in.Location
	}
	if in.LinkedIn != nil {
		company.LinkedIn = *in.LinkedIn
		changes["linkedin"] = *in.LinkedIn
	}
	if in.Emails != nil {
		company.Emails = *in.Emails
		changes["emails"] = *in.Emails
	}
	if in.Phones != nil {
		company.Phones = *in.Phones
		changes["phones"] = *in.Phones
	}
	if in.Comments != nil {
		company.Comments = *in.Comments
		changes["comments"] = *in.Comments
	}
	if in.PeriodicityDays != nil {
		company.PeriodicityDays = *in.PeriodicityDays
		changes["periodicity_days"] = *in.PeriodicityDays
	}
	if in.HighlightDisabled != nil {
		company.HighlightDisabled = *in.HighlightDisabled
		changes["highlight_disabled"] = *in.HighlightDisabled
	}

	if err := model.ValidateCompany(company); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateCompany(r.Context(), company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "company not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update company")
		return
	}

	s.publish(r.Context(), events.TopicCompanyUpdated, events.CompanyUpdated{Company: company, Changes: changes})

	writeJSON(w, http.StatusOK, company)
}

// handleSetCompanyHighlight handles POST /v1/companies/{id}/highlight.
// Body: {"disabled": true|false}. Toggles whether the company participates
// in overdue highlighting.
func (s *CommServer) handleSetCompanyHighlight(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in struct {
		Disabled bool `json:"disabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	company, err := s.store.SetCompanyHighlight(r.Context(), id, in.Disabled)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update company")
		return
	}

	s.publish(r.Context(), events.TopicCompanyUpdated, events.CompanyUpdated{
		Company: company,
		Changes: map[string]any{"highlight_disabled": in.Disabled},
	})

	writeJSON(w, http.StatusOK, company)
}

// handleDeleteCompany handles DELETE /v1/companies/{id}.
// Deleting a company cascades to its events.
func (s *CommServer) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteCompany(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "company not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete company")
		return
	}

	s.publish(r.Context(), events.TopicCompanyDeleted, events.CompanyDeleted{CompanyID: id})

	w.WriteHeader(http.StatusNoContent)
}
