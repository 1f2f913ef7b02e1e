package sync

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	companies map[string]*model.Company
	methods   map[string]*model.Method
	events    map[string]*model.CommEvent
	snapshots map[string]*model.OverdueSnapshot
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
	return c, nil
}

func (m *mockStore) ListCompanies(_ context.Context) ([]*model.Company, error) {
	var result []*model.Company
	for _, c := range m.companies {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockStore) UpdateCompany(_ context.Context, c *model.Company) error {
	m.companies[c.ID] = c
	return nil
}

func (m *mockStore) SetCompanyHighlight(_ context.Context, id string, disabled bool) (*model.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.HighlightDisabled = disabled
	return c, nil
}

func (m *mockStore) DeleteCompany(_ context.Context, id string) error {
	if _, ok := m.companies[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.companies, id)
	return nil
}

func (m *mockStore) CreateMethod(_ context.Context, method *model.Method) error {
	m.methods[method.ID] = method
	return nil
}

func (m *mockStore) ListMethods(_ context.Context) ([]*model.Method, error) {
	var result []*model.Method
	for _, method := range m.methods {
		result = append(result, method)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	return result, nil
}

func (m *mockStore) DeleteMethod(_ context.Context, id string) error {
	if _, ok := m.methods[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.methods, id)
	return nil
}

func (m *mockStore) CreateEvent(_ context.Context, e *model.CommEvent) (bool, error) {
	if _, ok := m.events[e.ID]; ok {
		return false, nil
	}
	m.events[e.ID] = e
	return true, nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.CommEvent, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockStore) ListEvents(_ context.Context, _ model.EventFilter) ([]*model.CommEvent, int, error) {
	var result []*model.CommEvent
	for _, e := range m.events {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, len(result), nil
}

func (m *mockStore) UpdateEvent(_ context.Context, e *model.CommEvent) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockStore) DeleteEvent(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

func (m *mockStore) LastEvents(_ context.Context, _ string, _ int, _ time.Time) ([]*model.CommEvent, error) {
	return nil, nil
}

func (m *mockStore) NextEvent(_ context.Context, _ string, _ time.Time) (*model.CommEvent, error) {
	return nil, nil
}

func (m *mockStore) CountByMethod(_ context.Context, _, _ *time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (m *mockStore) CountConfirmedByMethod(_ context.Context, _, _ *time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (m *mockStore) CountOverdueCompanies(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (m *mockStore) RecordOverdueSnapshot(_ context.Context, s *model.OverdueSnapshot) error {
	m.snapshots[s.Date.Format("2006-01-02")] = s
	return nil
}

func (m *mockStore) ListOverdueSnapshots(_ context.Context, _, _ *time.Time) ([]*model.OverdueSnapshot, error) {
	var result []*model.OverdueSnapshot
	for _, s := range m.snapshots {
		result = append(result, s)
	}
	return result, nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

// nonEmptyLines splits s into lines, dropping empty ones.
func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
