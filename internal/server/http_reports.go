package server

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/groblegark/commtrack/internal/calendar"
	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/report"
)

// parseRangeParams reads optional from/to query params (RFC3339 or YYYY-MM-DD).
func parseRangeParams(r *http.Request) (from, to *time.Time) {
	parse := func(v string) *time.Time {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
		if d, err := time.Parse("2006-01-02", v); err == nil {
			return &d
		}
		return nil
	}
	if v := r.URL.Query().Get("from"); v != "" {
		from = parse(v)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to = parse(v)
	}
	return from, to
}

// handleDashboard handles GET /v1/dashboard.
// Returns one row per company with its recent and next communications plus
// overdue and due-today flags.
func (s *CommServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rows, err := report.New(s.store).Dashboard(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	if rows == nil {
		rows = []*model.DashboardRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": rows})
}

// handleCompanyDashboard handles GET /v1/companies/{id}/dashboard.
func (s *CommServer) handleCompanyDashboard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	row, err := report.New(s.store).CompanyDashboard(r.Context(), id, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// handleReportFrequency handles GET /v1/reports/frequency.
func (s *CommServer) handleReportFrequency(w http.ResponseWriter, r *http.Request) {
	from, to := parseRangeParams(r)
	counts, err := report.New(s.store).Frequency(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build frequency report")
		return
	}
	if counts == nil {
		counts = []report.MethodCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"methods": counts})
}

// handleReportEffectiveness handles GET /v1/reports/effectiveness.
func (s *CommServer) handleReportEffectiveness(w http.ResponseWriter, r *http.Request) {
	from, to := parseRangeParams(r)
	rows, err := report.New(s.store).Effectiveness(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build effectiveness report")
		return
	}
	if rows == nil {
		rows = []report.Effectiveness{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"methods": rows})
}

// handleReportTrends handles GET /v1/reports/trends.
// Returns the daily overdue-company counts recorded by the snapshotter.
func (s *CommServer) handleReportTrends(w http.ResponseWriter, r *http.Request) {
	from, to := parseRangeParams(r)
	points, err := report.New(s.store).Trends(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build trends report")
		return
	}
	if points == nil {
		points = []report.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// handleCalendarICS handles GET /v1/calendar.ics.
// Exports events, optionally limited to a company or date range, as an
// iCalendar feed of all-day entries.
func (s *CommServer) handleCalendarICS(w http.ResponseWriter, r *http.Request) {
	from, to := parseRangeParams(r)
	filter := model.EventFilter{
		CompanyID: r.URL.Query().Get("company_id"),
		From:      from,
		To:        to,
		Sort:      "date",
	}

	evts, _, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	ics := calendar.ExportICS(evts)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="commtrack.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}
