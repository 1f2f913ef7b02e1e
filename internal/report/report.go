package report

import (
	"context"
	"sort"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

// dashboardHistoryLimit is how many recent communications each dashboard row carries.
const dashboardHistoryLimit = 5

// Reporter builds aggregated views over the event store.
type Reporter struct {
	store store.Store
}

// New returns a Reporter backed by the given store.
func New(s store.Store) *Reporter {
	return &Reporter{store: s}
}

// MethodCount is one row of the frequency report.
type MethodCount struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// Effectiveness is one row of the effectiveness report: how many events per
// method completed (confirmed) versus how many were logged overall.
type Effectiveness struct {
	Method    string  `json:"method"`
	Total     int     `json:"total"`
	Confirmed int     `json:"confirmed"`
	Rate      float64 `json:"rate"`
}

// TrendPoint is one datapoint of the overdue trend.
type TrendPoint struct {
	Date         time.Time `json:"date"`
	OverdueCount int       `json:"overdue_count"`
}

// Frequency returns per-method event counts in the given range, most used first.
func (r *Reporter) Frequency(ctx context.Context, from, to *time.Time) ([]MethodCount, error) {
	counts, err := r.store.CountByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]MethodCount, 0, len(counts))
	for method, n := range counts {
		result = append(result, MethodCount{Method: method, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Method < result[j].Method
	})
	return result, nil
}

// Effectiveness returns per-method confirmed-vs-total ratios in the given
// range, highest rate first.
func (r *Reporter) Effectiveness(ctx context.Context, from, to *time.Time) ([]Effectiveness, error) {
	totals, err := r.store.CountByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	confirmed, err := r.store.CountConfirmedByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]Effectiveness, 0, len(totals))
	for method, total := range totals {
		row := Effectiveness{Method: method, Total: total, Confirmed: confirmed[method]}
		if total > 0 {
			row.Rate = float64(row.Confirmed) / float64(total)
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Rate != result[j].Rate {
			return result[i].Rate > result[j].Rate
		}
		return result[i].Method < result[j].Method
	})
	return result, nil
}

// Trends returns the recorded daily overdue counts in the given range.
func (r *Reporter) Trends(ctx context.Context, from, to *time.Time) ([]TrendPoint, error) {
	snaps, err := r.store.ListOverdueSnapshots(ctx, from, to)
	if err != nil {
		return nil, err
	}
	points := make([]TrendPoint, 0, len(snaps))
	for _, s := range snaps {
		points = append(points, TrendPoint{Date: s.Date, OverdueCount: s.OverdueCount})
	}
	return points, nil
}

// Dashboard builds one row per company, ordered as ListCompanies returns them.
func (r *Reporter) Dashboard(ctx context.Context, now time.Time) ([]*model.DashboardRow, error) {
	companies, err := r.store.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.DashboardRow, 0, len(companies))
	for _, c := range companies {
		row, err := r.buildRow(ctx, c, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CompanyDashboard builds the dashboard row for a single company.
func (r *Reporter) CompanyDashboard(ctx context.Context, id string, now time.Time) (*model.DashboardRow, error) {
	company, err := r.store.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.buildRow(ctx, company, now)
}

func (r *Reporter) buildRow(ctx context.Context, c *model.Company, now time.Time) (*model.DashboardRow, error) {
	// Event dates are stored at UTC midnight, so the past/upcoming split has
	// to compare against today's midnight: with a wall-clock timestamp an
	// event dated today would land on the past side.
	today := model.DateOnly(now)
	last, err := r.store.LastEvents(ctx, c.ID, dashboardHistoryLimit, today)
	if err != nil {
		return nil, err
	}
	next, err := r.store.NextEvent(ctx, c.ID, today)
	if err != nil {
		return nil, err
	}

	row := &model.DashboardRow{
		Company:            c,
		LastCommunications: last,
		NextCommunication:  next,
	}
	if len(row.LastCommunications) == 0 {
		row.LastCommunications = []*model.CommEvent{}
	}

	if !c.HighlightDisabled {
		row.Overdue = isOverdue(c, last, now)
		if next != nil && next.Date.Equal(today) {
			row.DueToday = true
		}
	}
	return row, nil
}

// isOverdue reports whether the company's communication cadence has lapsed:
// the most recent event (or the company's creation when none exists) plus
// the periodicity falls strictly before today.
func isOverdue(c *model.Company, last []*model.CommEvent, now time.Time) bool {
	if c.PeriodicityDays <= 0 {
		return false
	}
	anchor := model.DateOnly(c.CreatedAt)
	if len(last) > 0 {
		anchor = model.DateOnly(last[0].Date)
	}
	due := anchor.AddDate(0, 0, c.PeriodicityDays)
	return due.Before(model.DateOnly(now))
}
