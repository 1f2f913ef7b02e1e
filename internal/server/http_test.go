package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/groblegark/commtrack/internal/events"
	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

type mockStore struct {
	companies map[string]*model.Company
	methods   map[string]*model.Method
	events    map[string]*model.CommEvent
	snapshots map[string]*model.OverdueSnapshot

	// createEventErr, when non-nil, is returned by CreateEvent.
	createEventErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		companies: make(map[string]*model.Company),
		methods:   make(map[string]*model.Method),
		events:    make(map[string]*model.CommEvent),
		snapshots: make(map[string]*model.OverdueSnapshot),
	}
}

func (m *mockStore) CreateCompany(_ context.Context, c *model.Company) error {
	m.companies[c.ID] = c
	return nil
}

func (m *mockStore) GetCompany(_ context.Context, id string) (*model.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (m *mockStore) ListCompanies(_ context.Context) ([]*model.Company, error) {
	var result []*model.Company
	for _, c := range m.companies {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStore) UpdateCompany(_ context.Context, c *model.Company) error {
	if _, ok := m.companies[c.ID]; !ok {
		return sql.ErrNoRows
	}
	m.companies[c.ID] = c
	return nil
}

func (m *mockStore) SetCompanyHighlight(_ context.Context, id string, disabled bool) (*model.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.HighlightDisabled = disabled
	clone := *c
	return &clone, nil
}

func (m *mockStore) DeleteCompany(_ context.Context, id string) error {
	if _, ok := m.companies[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.companies, id)
	for eid, e := range m.events {
		if e.CompanyID == id {
			delete(m.events, eid)
		}
	}
	return nil
}

func (m *mockStore) CreateMethod(_ context.Context, mt *model.Method) error {
	m.methods[mt.ID] = mt
	return nil
}

func (m *mockStore) ListMethods(_ context.Context) ([]*model.Method, error) {
	var result []*model.Method
	for _, mt := range m.methods {
		result = append(result, mt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sequence < result[j].Sequence })
	return result, nil
}

func (m *mockStore) DeleteMethod(_ context.Context, id string) error {
	if _, ok := m.methods[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.methods, id)
	return nil
}

func (m *mockStore) methodKnown(name string) bool {
	for _, mt := range m.methods {
		if mt.Name == name {
			return true
		}
	}
	return false
}

func (m *mockStore) CreateEvent(_ context.Context, e *model.CommEvent) (bool, error) {
	if m.createEventErr != nil {
		return false, m.createEventErr
	}
	if !m.methodKnown(e.Method) {
		return false, fmt.Errorf("%w: %q", store.ErrUnknownMethod, e.Method)
	}
	if _, ok := m.events[e.ID]; ok {
		return false, nil
	}
	clone := *e
	m.events[e.ID] = &clone
	return true, nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.CommEvent, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	if c, ok := m.companies[e.CompanyID]; ok {
		clone.CompanyName = c.Name
	}
	return &clone, nil
}

func (m *mockStore) ListEvents(_ context.Context, filter model.EventFilter) ([]*model.CommEvent, int, error) {
	var result []*model.CommEvent
	for _, e := range m.events {
		if filter.CompanyID != "" && e.CompanyID != filter.CompanyID {
			continue
		}
		if len(filter.Method) > 0 {
			found := false
			for _, mt := range filter.Method {
				if e.Method == mt {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if len(filter.Status) > 0 {
			found := false
			for _, st := range filter.Status {
				if e.Status == st {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !e.Date.Before(*filter.To) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Notes), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *e
		if c, ok := m.companies[e.CompanyID]; ok {
			clone.CompanyName = c.Name
		}
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	total := len(result)
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (m *mockStore) UpdateEvent(_ context.Context, e *model.CommEvent) error {
	if _, ok := m.events[e.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *e
	m.events[e.ID] = &clone
	return nil
}

func (m *mockStore) DeleteEvent(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

func (m *mockStore) LastEvents(ctx context.Context, companyID string, limit int, now time.Time) ([]*model.CommEvent, error) {
	all, _, _ := m.ListEvents(ctx, model.EventFilter{CompanyID: companyID})
	var result []*model.CommEvent
	for _, e := range all {
		if e.Date.Before(now) {
			result = append(result, e)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockStore) NextEvent(ctx context.Context, companyID string, now time.Time) (*model.CommEvent, error) {
	all, _, _ := m.ListEvents(ctx, model.EventFilter{CompanyID: companyID})
	var next *model.CommEvent
	for _, e := range all {
		if e.Date.Before(now) {
			continue
		}
		if next == nil || e.Date.Before(next.Date) {
			next = e
		}
	}
	return next, nil
}

func (m *mockStore) CountByMethod(_ context.Context, from, to *time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range m.events {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && !e.Date.Before(*to) {
			continue
		}
		counts[e.Method]++
	}
	return counts, nil
}

func (m *mockStore) CountConfirmedByMethod(_ context.Context, from, to *time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range m.events {
		if e.Status != model.StatusConfirmed {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && !e.Date.Before(*to) {
			continue
		}
		counts[e.Method]++
	}
	return counts, nil
}

func (m *mockStore) CountOverdueCompanies(_ context.Context, now time.Time) (int, error) {
	n := 0
	for _, c := range m.companies {
		if c.PeriodicityDays <= 0 || c.HighlightDisabled {
			continue
		}
		anchor := model.DateOnly(c.CreatedAt)
		for _, e := range m.events {
			if e.CompanyID == c.ID && e.Date.After(anchor) && e.Date.Before(now) {
				anchor = model.DateOnly(e.Date)
			}
		}
		if anchor.AddDate(0, 0, c.PeriodicityDays).Before(model.DateOnly(now)) {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) RecordOverdueSnapshot(_ context.Context, s *model.OverdueSnapshot) error {
	m.snapshots[s.Date.Format("2006-01-02")] = s
	return nil
}

func (m *mockStore) ListOverdueSnapshots(_ context.Context, from, to *time.Time) ([]*model.OverdueSnapshot, error) {
	var result []*model.OverdueSnapshot
	for _, s := range m.snapshots {
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && !s.Date.Before(*to) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

// seedMethod adds a method to the mock catalog.
func (m *mockStore) seedMethod(name string) {
	id := fmt.Sprintf("me-%d", len(m.methods)+1)
	m.methods[id] = &model.Method{ID: id, Name: name, Sequence: len(m.methods) + 1}
}

// newTestServer returns a CommServer over a fresh mock store.
func newTestServer() (*CommServer, *mockStore) {
	ms := newMockStore()
	srv := NewCommServer(ms, &events.NoopPublisher{})
	return srv, ms
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("sekrit")

	// Health is exempt.
	rec := doRequest(t, handler, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	// Missing token.
	rec = doRequest(t, handler, http.MethodGet, "/v1/companies", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	// Wrong token.
	req := httptest.NewRequest(http.MethodGet, "/v1/companies", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: expected 401, got %d", rec.Code)
	}

	// Correct token.
	req = httptest.NewRequest(http.MethodGet, "/v1/companies", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", rec.Code)
	}
}

func TestHandleCreateCompany(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodPost, "/v1/companies", map[string]any{
		"name":             "Acme",
		"location":         "Berlin",
		"emails":           []string{"hello@acme.test"},
		"periodicity_days": 14,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var got model.Company
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID == "" || !strings.HasPrefix(got.ID, "co-") {
		t.Errorf("expected generated co- id, got %q", got.ID)
	}
	if _, ok := ms.companies[got.ID]; !ok {
		t.Error("company not persisted")
	}
}

func TestHandleCreateCompany_ValidationError(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodPost, "/v1/companies", map[string]any{
		"name":   "",
		"emails": []string{"not-an-email"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleGetCompany_NotFound(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodGet, "/v1/companies/co-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleUpdateCompany(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme", PeriodicityDays: 7}

	rec := doRequest(t, handler, http.MethodPatch, "/v1/companies/co-a", map[string]any{
		"periodicity_days": 30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if ms.companies["co-a"].PeriodicityDays != 30 {
		t.Errorf("periodicity not updated: %d", ms.companies["co-a"].PeriodicityDays)
	}
	if ms.companies["co-a"].Name != "Acme" {
		t.Errorf("name should be unchanged, got %q", ms.companies["co-a"].Name)
	}
}

func TestHandleSetCompanyHighlight(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}

	rec := doRequest(t, handler, http.MethodPost, "/v1/companies/co-a/highlight", map[string]any{
		"disabled": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ms.companies["co-a"].HighlightDisabled {
		t.Error("highlight_disabled not set")
	}
}

func TestHandleDeleteCompany_CascadesEvents(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}
	ms.events["ev-1"] = &model.CommEvent{ID: "ev-1", CompanyID: "co-a", Method: "email", Date: time.Now()}

	rec := doRequest(t, handler, http.MethodDelete, "/v1/companies/co-a", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(ms.events) != 0 {
		t.Error("expected events to be deleted with company")
	}
}

func TestHandleCreateMethod(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodPost, "/v1/methods", map[string]any{
		"name":     "video call",
		"sequence": 6,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
}

func TestHandleCreateMethod_BadSequence(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodPost, "/v1/methods", map[string]any{
		"name":     "video call",
		"sequence": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCreateEvent(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}
	ms.seedMethod("email")

	rec := doRequest(t, handler, http.MethodPost, "/v1/events", map[string]any{
		"company_id": "co-a",
		"method":     "email",
		"date":       "2026-09-15T00:00:00Z",
		"notes":      "intro mail",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var got model.CommEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed status, got %q", got.Status)
	}
	if got.CompanyName != "Acme" {
		t.Errorf("expected denormalized company name, got %q", got.CompanyName)
	}
}

func TestHandleCreateEvent_IdempotentByID(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}
	ms.seedMethod("email")

	body := map[string]any{
		"id":         "ev-client001",
		"company_id": "co-a",
		"method":     "email",
		"date":       "2026-09-15T00:00:00Z",
	}

	rec := doRequest(t, handler, http.MethodPost, "/v1/events", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d: %s", rec.Code, rec.Body)
	}

	// Replaying the same create must not duplicate or error.
	rec = doRequest(t, handler, http.MethodPost, "/v1/events", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if len(ms.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(ms.events))
	}
}

func TestHandleCreateEvent_UnknownMethod(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}

	rec := doRequest(t, handler, http.MethodPost, "/v1/events", map[string]any{
		"company_id": "co-a",
		"method":     "telegraph",
		"date":       "2026-09-15T00:00:00Z",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
}

func TestHandleUpdateEvent_NotFound(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodPatch, "/v1/events/ev-missing", map[string]any{
		"notes": "updated",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleListEvents_FiltersAndTotal(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}
	ms.companies["co-b"] = &model.Company{ID: "co-b", Name: "Birchwood"}
	now := time.Now().UTC()
	ms.events["ev-1"] = &model.CommEvent{ID: "ev-1", CompanyID: "co-a", Method: "email", Date: now, Status: model.StatusConfirmed}
	ms.events["ev-2"] = &model.CommEvent{ID: "ev-2", CompanyID: "co-b", Method: "phone call", Date: now, Status: model.StatusConfirmed}

	rec := doRequest(t, handler, http.MethodGet, "/v1/events?company_id=co-a", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Events []*model.CommEvent `json:"events"`
		Total  int                `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Events) != 1 || resp.Total != 1 {
		t.Fatalf("expected 1 event, got %d (total %d)", len(resp.Events), resp.Total)
	}
	if resp.Events[0].ID != "ev-1" {
		t.Errorf("got %q", resp.Events[0].ID)
	}
}

func TestHandleListEvents_EmptyIsNotNull(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodGet, "/v1/events", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"events":null`) {
		t.Error("events should serialize as [] when empty")
	}
}

func TestHandleDashboard(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	now := time.Now().UTC()
	ms.companies["co-a"] = &model.Company{
		ID: "co-a", Name: "Acme", PeriodicityDays: 7,
		CreatedAt: now.AddDate(0, 0, -30),
	}
	// Last contact 14 days ago with a 7-day cadence: overdue.
	ms.events["ev-1"] = &model.CommEvent{
		ID: "ev-1", CompanyID: "co-a", Method: "email",
		Date: model.DateOnly(now.AddDate(0, 0, -14)), Status: model.StatusConfirmed,
	}

	rec := doRequest(t, handler, http.MethodGet, "/v1/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Companies []*model.DashboardRow `json:"companies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Companies) != 1 {
		t.Fatalf("expected 1 row, got %d", len(resp.Companies))
	}
	if !resp.Companies[0].Overdue {
		t.Error("expected company to be overdue")
	}
	if len(resp.Companies[0].LastCommunications) != 1 {
		t.Errorf("expected 1 past event, got %d", len(resp.Companies[0].LastCommunications))
	}
}

func TestHandleReportFrequency(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	now := time.Now().UTC()
	ms.events["ev-1"] = &model.CommEvent{ID: "ev-1", CompanyID: "co-a", Method: "email", Date: now, Status: model.StatusConfirmed}
	ms.events["ev-2"] = &model.CommEvent{ID: "ev-2", CompanyID: "co-a", Method: "email", Date: now, Status: model.StatusConfirmed}
	ms.events["ev-3"] = &model.CommEvent{ID: "ev-3", CompanyID: "co-a", Method: "phone call", Date: now, Status: model.StatusConfirmed}

	rec := doRequest(t, handler, http.MethodGet, "/v1/reports/frequency", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Methods []struct {
			Method string `json:"method"`
			Count  int    `json:"count"`
		} `json:"methods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(resp.Methods))
	}
	if resp.Methods[0].Method != "email" || resp.Methods[0].Count != 2 {
		t.Errorf("expected email first with count 2, got %+v", resp.Methods[0])
	}
}

func TestHandleCalendarICS(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	ms.companies["co-a"] = &model.Company{ID: "co-a", Name: "Acme"}
	ms.events["ev-1"] = &model.CommEvent{
		ID: "ev-1", CompanyID: "co-a", Method: "email",
		Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), Status: model.StatusConfirmed,
	}

	rec := doRequest(t, handler, http.MethodGet, "/v1/calendar.ics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "email - Acme") {
		t.Errorf("unexpected ICS body:\n%s", body)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/companies", nil)
	RecoveryMiddleware(panicky).ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
