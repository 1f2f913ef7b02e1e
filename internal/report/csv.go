package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteFrequencyCSV writes the frequency report as CSV with a header row.
func WriteFrequencyCSV(w io.Writer, counts []MethodCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"method", "count"}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.Method, fmt.Sprintf("%d", c.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEffectivenessCSV writes the effectiveness report as CSV with a header row.
func WriteEffectivenessCSV(w io.Writer, rows []Effectiveness) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"method", "total", "confirmed", "rate"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Method,
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d", r.Confirmed),
			fmt.Sprintf("%.3f", r.Rate),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrendsCSV writes the overdue trend as CSV with a header row.
func WriteTrendsCSV(w io.Writer, points []TrendPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "overdue_count"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.Date.Format("2006-01-02"), fmt.Sprintf("%d", p.OverdueCount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
