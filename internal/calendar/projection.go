package calendar

import (
	"sort"
	"time"

	"github.com/groblegark/commtrack/internal/model"
)

// Projection is a read-only split of the event store relative to a fixed
// reference time. Past holds events dated strictly before the reference day;
// Upcoming holds events dated on or after it. Every event lands in exactly
// one of the two.
type Projection struct {
	All      []*model.CommEvent
	Past     []*model.CommEvent
	Upcoming []*model.CommEvent
}

// Project classifies events against now. The input is never mutated; the
// projection is recomputed from scratch on every call so repeated calls with
// the same inputs yield identical output. Past is sorted most recent first,
// Upcoming soonest first.
func Project(events []*model.CommEvent, now time.Time) Projection {
	today := model.DateOnly(now)

	p := Projection{
		All:      make([]*model.CommEvent, 0, len(events)),
		Past:     make([]*model.CommEvent, 0),
		Upcoming: make([]*model.CommEvent, 0),
	}
	for _, e := range events {
		p.All = append(p.All, e)
		if model.DateOnly(e.Date).Before(today) {
			p.Past = append(p.Past, e)
		} else {
			p.Upcoming = append(p.Upcoming, e)
		}
	}
	sort.SliceStable(p.Past, func(i, j int) bool { return p.Past[i].Date.After(p.Past[j].Date) })
	sort.SliceStable(p.Upcoming, func(i, j int) bool { return p.Upcoming[i].Date.Before(p.Upcoming[j].Date) })
	return p
}

// Entry is a display-ready calendar interval. Events are day-granularity and
// non-spanning, so Start and End are the same date and AllDay is always set.
type Entry struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"all_day"`

	Status model.EventStatus `json:"status"`
}

// Entries renders events as calendar entries with the title composed from
// the method and company names.
func Entries(events []*model.CommEvent) []Entry {
	out := make([]Entry, 0, len(events))
	for _, e := range events {
		day := model.DateOnly(e.Date)
		out = append(out, Entry{
			ID:     e.ID,
			Title:  e.Title(),
			Start:  day,
			End:    day,
			AllDay: true,
			Status: e.Status,
		})
	}
	return out
}
