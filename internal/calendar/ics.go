package calendar

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/groblegark/commtrack/internal/model"
)

const icsProdID = "-//commtrack//calendar//EN"

// ExportICS serializes events as an iCalendar feed. Each event becomes a
// single all-day VEVENT with the event ID as its UID and the usual
// "{method} - {company}" title as the summary, so the feed can be subscribed
// to from any calendar client.
func ExportICS(events []*model.CommEvent) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProdID)

	for _, e := range events {
		day := model.DateOnly(e.Date)
		ve := cal.AddEvent(e.ID)
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ve.SetSummary(e.Title())
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
		ve.SetDtStampTime(stampTime(e))
	}
	return cal.Serialize()
}

// stampTime picks the most recent modification time for DTSTAMP, falling
// back to the event date for records that never touched the server.
func stampTime(e *model.CommEvent) time.Time {
	if !e.UpdatedAt.IsZero() {
		return e.UpdatedAt.UTC()
	}
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt.UTC()
	}
	return model.DateOnly(e.Date)
}
