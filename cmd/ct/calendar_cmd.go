package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/calendar"
	"github.com/groblegark/commtrack/internal/client"
	"github.com/groblegark/commtrack/internal/ui"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Short:   "Past/upcoming calendar of communications",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, _ := cmd.Flags().GetString("company")

		resp, err := commClient.ListEvents(context.Background(), &client.ListEventsRequest{
			CompanyID: companyID,
		})
		if err != nil {
			return err
		}

		p := calendar.Project(resp.Events, time.Now().UTC())
		if jsonOutput {
			printJSON(map[string]any{
				"past":     calendar.Entries(p.Past),
				"upcoming": calendar.Entries(p.Upcoming),
			})
			return nil
		}

		fmt.Println("Upcoming:")
		if len(p.Upcoming) == 0 {
			fmt.Println("  " + ui.RenderMuted("none scheduled"))
		}
		for _, e := range p.Upcoming {
			fmt.Printf("  %s  %s\n", e.Date.Format("2006-01-02"), e.Title())
		}
		fmt.Println()
		fmt.Println("Past:")
		for _, e := range p.Past {
			fmt.Printf("  %s  %s\n", ui.RenderMuted(e.Date.Format("2006-01-02")), e.Title())
		}
		return nil
	},
}

var calendarWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live calendar changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, _ := cmd.Flags().GetString("company")

		httpClient, ok := commClient.(*client.HTTPClient)
		if !ok {
			return fmt.Errorf("watch requires the HTTP client")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		view := calendar.NewView(httpClient, companyID)
		if err := view.Open(ctx); err != nil {
			return err
		}
		defer view.Close()

		fmt.Printf("watching calendar (%d events), ctrl-c to stop\n", len(view.Events()))

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		lastCount := len(view.Events())
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if view.State() == calendar.StateDisconnected {
					return fmt.Errorf("server closed the event stream")
				}
				evts := view.Events()
				if len(evts) == lastCount {
					continue
				}
				lastCount = len(evts)
				p := calendar.Project(evts, time.Now().UTC())
				fmt.Printf("%s  %d past, %d upcoming\n",
					time.Now().Format("15:04:05"), len(p.Past), len(p.Upcoming))
			}
		}
	},
}

var calendarExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the calendar as an iCalendar file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, _ := cmd.Flags().GetString("company")
		output, _ := cmd.Flags().GetString("output")

		from, err := parseDateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDateFlag(cmd, "to")
		if err != nil {
			return err
		}

		ics, err := commClient.CalendarICS(context.Background(), companyID, from, to)
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			fmt.Print(ics)
			return nil
		}
		if err := os.WriteFile(output, []byte(ics), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", output)
		return nil
	},
}

func init() {
	calendarCmd.Flags().String("company", "", "restrict to one company ID")
	calendarWatchCmd.Flags().String("company", "", "restrict to one company ID")
	calendarExportCmd.Flags().String("company", "", "restrict to one company ID")
	calendarExportCmd.Flags().String("from", "", "inclusive lower date bound (YYYY-MM-DD)")
	calendarExportCmd.Flags().String("to", "", "exclusive upper date bound (YYYY-MM-DD)")
	calendarExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	calendarCmd.AddCommand(calendarWatchCmd)
	calendarCmd.AddCommand(calendarExportCmd)
}
