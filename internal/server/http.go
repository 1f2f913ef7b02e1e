package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *CommServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/companies", s.handleCreateCompany)
	mux.HandleFunc("GET /v1/companies", s.handleListCompanies)
	mux.HandleFunc("GET /v1/companies/{id}", s.handleGetCompany)
	mux.HandleFunc("PATCH /v1/companies/{id}", s.handleUpdateCompany)
	mux.HandleFunc("POST /v1/companies/{id}/highlight", s.handleSetCompanyHighlight)
	mux.HandleFunc("DELETE /v1/companies/{id}", s.handleDeleteCompany)
	mux.HandleFunc("GET /v1/companies/{id}/dashboard", s.handleCompanyDashboard)
	mux.HandleFunc("POST /v1/methods", s.handleCreateMethod)
	mux.HandleFunc("GET /v1/methods", s.handleListMethods)
	mux.HandleFunc("DELETE /v1/methods/{id}", s.handleDeleteMethod)
	mux.HandleFunc("POST /v1/events", s.handleCreateEvent)
	mux.HandleFunc("GET /v1/events", s.handleListEvents)
	mux.HandleFunc("GET /v1/events/{id}", s.handleGetEvent)
	mux.HandleFunc("PATCH /v1/events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /v1/events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /v1/reports/frequency", s.handleReportFrequency)
	mux.HandleFunc("GET /v1/reports/effectiveness", s.handleReportEffectiveness)
	mux.HandleFunc("GET /v1/reports/trends", s.handleReportTrends)
	mux.HandleFunc("GET /v1/calendar.ics", s.handleCalendarICS)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, RecoveryMiddleware(LoggingMiddleware(mux)))
}

// handleHealth handles GET /v1/health.
func (s *CommServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
