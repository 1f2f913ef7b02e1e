package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/report"
	"github.com/groblegark/commtrack/internal/ui"
)

var (
	reportChart bool
	reportCSV   bool
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Communication reports",
	GroupID: "views",
}

var reportFrequencyCmd = &cobra.Command{
	Use:   "frequency",
	Short: "Communication count per method",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDateFlag(cmd, "to")
		if err != nil {
			return err
		}

		counts, err := commClient.ReportFrequency(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		if reportCSV {
			return report.WriteFrequencyCSV(os.Stdout, counts)
		}
		if jsonOutput {
			printJSON(counts)
			return nil
		}
		if reportChart {
			bars := make([]barchart.BarData, 0, len(counts))
			for _, c := range counts {
				bars = append(bars, barchart.BarData{
					Label: c.Method,
					Values: []barchart.BarValue{
						{Name: c.Method, Value: float64(c.Count), Style: ui.ChartBarStyle},
					},
				})
			}
			fmt.Println(renderBarChart("Communications by method", bars))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tCOUNT")
		for _, c := range counts {
			fmt.Fprintf(w, "%s\t%d\n", c.Method, c.Count)
		}
		return w.Flush()
	},
}

var reportEffectivenessCmd = &cobra.Command{
	Use:   "effectiveness",
	Short: "Confirmation rate per method",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDateFlag(cmd, "to")
		if err != nil {
			return err
		}

		rows, err := commClient.ReportEffectiveness(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		if reportCSV {
			return report.WriteEffectivenessCSV(os.Stdout, rows)
		}
		if jsonOutput {
			printJSON(rows)
			return nil
		}
		if reportChart {
			bars := make([]barchart.BarData, 0, len(rows))
			for _, r := range rows {
				bars = append(bars, barchart.BarData{
					Label: r.Method,
					Values: []barchart.BarValue{
						{Name: r.Method, Value: r.Rate * 100, Style: ui.ChartBarStyle},
					},
				})
			}
			fmt.Println(renderBarChart("Confirmation rate (%)", bars))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tTOTAL\tCONFIRMED\tRATE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", r.Method, r.Total, r.Confirmed, r.Rate*100)
		}
		return w.Flush()
	},
}

var reportTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Overdue company count over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDateFlag(cmd, "to")
		if err != nil {
			return err
		}

		points, err := commClient.ReportTrends(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		if reportCSV {
			return report.WriteTrendsCSV(os.Stdout, points)
		}
		if jsonOutput {
			printJSON(points)
			return nil
		}
		if reportChart {
			bars := make([]barchart.BarData, 0, len(points))
			for _, p := range points {
				label := p.Date.Format("Jan 02")
				bars = append(bars, barchart.BarData{
					Label: label,
					Values: []barchart.BarValue{
						{Name: label, Value: float64(p.OverdueCount), Style: ui.ChartBarStyle},
					},
				})
			}
			fmt.Println(renderBarChart("Overdue companies", bars))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tOVERDUE")
		for _, p := range points {
			fmt.Fprintf(w, "%s\t%d\n", p.Date.Format("2006-01-02"), p.OverdueCount)
		}
		return w.Flush()
	},
}

func renderBarChart(title string, bars []barchart.BarData) string {
	width := ui.Width(80) - 8
	if width < 20 {
		width = 20
	}
	chart := barchart.New(width, 12)
	chart.PushAll(bars)
	chart.Draw()
	return ui.ChartTitleStyle.Render(title) + "\n" + chart.View()
}

func init() {
	for _, cmd := range []*cobra.Command{reportFrequencyCmd, reportEffectivenessCmd, reportTrendsCmd} {
		cmd.Flags().String("from", "", "start date (YYYY-MM-DD, inclusive)")
		cmd.Flags().String("to", "", "end date (YYYY-MM-DD, inclusive)")
		cmd.Flags().BoolVar(&reportChart, "chart", false, "render as a bar chart")
		cmd.Flags().BoolVar(&reportCSV, "csv", false, "output as CSV")
		reportCmd.AddCommand(cmd)
	}
}
