package report

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// fakeStore is a hand-rolled store.Store serving canned aggregate data.
type fakeStore struct {
	store.Store // panic on anything not overridden

	companies []*model.Company
	events    map[string][]*model.CommEvent // companyID -> events sorted by date asc
	byMethod  map[string]int
	confirmed map[string]int
	snapshots []*model.OverdueSnapshot
	overdue   int

	recorded []*model.OverdueSnapshot
}

func (f *fakeStore) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	return f.companies, nil
}

func (f *fakeStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

// LastEvents and NextEvent compare the stored midnight date against now
// exactly the way the SQL does (date < $2 / date >= $2, no truncation), so
// callers have to hand in a midnight cutoff themselves.
func (f *fakeStore) LastEvents(ctx context.Context, companyID string, limit int, now time.Time) ([]*model.CommEvent, error) {
	var out []*model.CommEvent
	evts := f.events[companyID]
	for i := len(evts) - 1; i >= 0 && len(out) < limit; i-- {
		if evts[i].Date.Before(now) {
			out = append(out, evts[i])
		}
	}
	return out, nil
}

func (f *fakeStore) NextEvent(ctx context.Context, companyID string, now time.Time) (*model.CommEvent, error) {
	for _, e := range f.events[companyID] {
		if !e.Date.Before(now) {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return f.byMethod, nil
}

func (f *fakeStore) CountConfirmedByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return f.confirmed, nil
}

func (f *fakeStore) CountOverdueCompanies(ctx context.Context, now time.Time) (int, error) {
	return f.overdue, nil
}

func (f *fakeStore) RecordOverdueSnapshot(ctx context.Context, s *model.OverdueSnapshot) error {
	f.recorded = append(f.recorded, s)
	return nil
}

func (f *fakeStore) ListOverdueSnapshots(ctx context.Context, from, to *time.Time) ([]*model.OverdueSnapshot, error) {
	return f.snapshots, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFrequencySortsByCountThenName(t *testing.T) {
	r := New(&fakeStore{byMethod: map[string]int{
		"email": 3, "phone call": 7, "conference": 3,
	}})

	rows, err := r.Frequency(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []MethodCount{
		{Method: "phone call", Count: 7},
		{Method: "conference", Count: 3},
		{Method: "email", Count: 3},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows", len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestEffectivenessRates(t *testing.T) {
	r := New(&fakeStore{
		byMethod:  map[string]int{"email": 4, "phone call": 2, "post": 1},
		confirmed: map[string]int{"email": 3, "phone call": 2},
	})

	rows, err := r.Effectiveness(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	// Highest rate first: phone call 1.0, email 0.75, post 0.0.
	if rows[0].Method != "phone call" || rows[0].Rate != 1.0 {
		t.Errorf("got first row %+v", rows[0])
	}
	if rows[1].Method != "email" || rows[1].Rate != 0.75 {
		t.Errorf("got second row %+v", rows[1])
	}
	if rows[2].Method != "post" || rows[2].Rate != 0 || rows[2].Confirmed != 0 {
		t.Errorf("got third row %+v", rows[2])
	}
}

func TestTrends(t *testing.T) {
	r := New(&fakeStore{snapshots: []*model.OverdueSnapshot{
		{Date: day("2026-08-01"), OverdueCount: 2},
		{Date: day("2026-08-02"), OverdueCount: 3},
	}})

	points, err := r.Trends(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 || points[1].OverdueCount != 3 {
		t.Fatalf("got %+v", points)
	}
}

func TestDashboardOverdue(t *testing.T) {
	now := day("2026-08-31")
	fs := &fakeStore{
		companies: []*model.Company{
			{ID: "co-1", Name: "Acme", PeriodicityDays: 7},
		},
		events: map[string][]*model.CommEvent{
			"co-1": {{ID: "ev-1", CompanyID: "co-1", Method: "email", Date: day("2026-08-10")}},
		},
	}
	r := New(fs)

	rows, err := r.Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if !rows[0].Overdue {
		t.Error("expected company overdue: last contact 21 days ago with a 7-day cadence")
	}
	if rows[0].DueToday {
		t.Error("nothing scheduled today")
	}
}

func TestDashboardOverdueAnchorsOnCreationWhenNoEvents(t *testing.T) {
	now := day("2026-08-31")
	fs := &fakeStore{
		companies: []*model.Company{
			{ID: "co-1", Name: "Acme", PeriodicityDays: 7, CreatedAt: day("2026-08-01")},
			{ID: "co-2", Name: "Globex", PeriodicityDays: 7, CreatedAt: day("2026-08-29")},
		},
		events: map[string][]*model.CommEvent{},
	}
	rows, err := New(fs).Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0].Overdue {
		t.Error("company created 30 days ago with no contact should be overdue")
	}
	if rows[1].Overdue {
		t.Error("company created 2 days ago is within its cadence")
	}
}

func TestDashboardNotOverdueAtExactCadence(t *testing.T) {
	// Due date exactly today is not yet overdue; overdue starts strictly after.
	now := day("2026-08-31")
	fs := &fakeStore{
		companies: []*model.Company{{ID: "co-1", Name: "Acme", PeriodicityDays: 7}},
		events: map[string][]*model.CommEvent{
			"co-1": {{ID: "ev-1", CompanyID: "co-1", Method: "email", Date: day("2026-08-24")}},
		},
	}
	rows, err := New(fs).Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Overdue {
		t.Error("due exactly today must not count as overdue")
	}
}

func TestDashboardDueToday(t *testing.T) {
	now := day("2026-08-31")
	fs := &fakeStore{
		companies: []*model.Company{{ID: "co-1", Name: "Acme"}},
		events: map[string][]*model.CommEvent{
			"co-1": {{ID: "ev-1", CompanyID: "co-1", Method: "email", Date: day("2026-08-31")}},
		},
	}
	rows, err := New(fs).Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0].DueToday {
		t.Error("expected due-today flag for an event dated today")
	}
	if rows[0].NextCommunication == nil || rows[0].NextCommunication.ID != "ev-1" {
		t.Errorf("got next %+v", rows[0].NextCommunication)
	}
}

func TestDashboardDueTodayWithWallClockNow(t *testing.T) {
	// Mid-day timestamp: an event dated today must still count as upcoming,
	// not slide into the past communications.
	now := day("2026-08-31").Add(15 * time.Hour)
	fs := &fakeStore{
		companies: []*model.Company{{ID: "co-1", Name: "Acme", PeriodicityDays: 7, CreatedAt: day("2026-08-28")}},
		events: map[string][]*model.CommEvent{
			"co-1": {{ID: "ev-1", CompanyID: "co-1", Method: "email", Date: day("2026-08-31")}},
		},
	}
	rows, err := New(fs).Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].NextCommunication == nil || rows[0].NextCommunication.ID != "ev-1" {
		t.Errorf("got next %+v", rows[0].NextCommunication)
	}
	if !rows[0].DueToday {
		t.Error("expected due-today flag for an event dated today")
	}
	if len(rows[0].LastCommunications) != 0 {
		t.Errorf("today's event leaked into past communications: %+v", rows[0].LastCommunications)
	}
	if rows[0].Overdue {
		t.Error("company with today's event scheduled must not be overdue")
	}
}

func TestDashboardHighlightDisabledSuppressesFlags(t *testing.T) {
	now := day("2026-08-31")
	fs := &fakeStore{
		companies: []*model.Company{
			{ID: "co-1", Name: "Acme", PeriodicityDays: 7, HighlightDisabled: true, CreatedAt: day("2026-01-01")},
		},
		events: map[string][]*model.CommEvent{
			"co-1": {{ID: "ev-1", CompanyID: "co-1", Method: "email", Date: day("2026-08-31")}},
		},
	}
	rows, err := New(fs).Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Overdue || rows[0].DueToday {
		t.Error("highlight-disabled company must never be flagged")
	}
}

func TestDashboardEmptyHistoryIsNotNull(t *testing.T) {
	fs := &fakeStore{
		companies: []*model.Company{{ID: "co-1", Name: "Acme"}},
		events:    map[string][]*model.CommEvent{},
	}
	rows, err := New(fs).Dashboard(context.Background(), day("2026-08-31"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].LastCommunications == nil {
		t.Error("history must be an empty slice, not nil")
	}
}

func TestCompanyDashboardUnknownCompany(t *testing.T) {
	r := New(&fakeStore{})
	if _, err := r.CompanyDashboard(context.Background(), "co-missing", day("2026-08-31")); err == nil {
		t.Fatal("expected error for unknown company")
	}
}

func TestSnapshotRecordsOverdueCount(t *testing.T) {
	fs := &fakeStore{overdue: 4}
	sn, err := NewSnapshotter(fs, "@daily")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	if err := sn.Snapshot(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.recorded) != 1 {
		t.Fatalf("recorded %d snapshots", len(fs.recorded))
	}
	got := fs.recorded[0]
	if got.OverdueCount != 4 {
		t.Errorf("got count %d", got.OverdueCount)
	}
	if !got.Date.Equal(day("2026-08-31")) {
		t.Errorf("got date %v, want midnight UTC", got.Date)
	}
}

func TestSnapshotterRejectsBadSchedule(t *testing.T) {
	if _, err := NewSnapshotter(&fakeStore{}, "not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
