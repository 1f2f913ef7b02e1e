package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/client"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Short:   "Query and edit logged communications",
	GroupID: "tracking",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List communication events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListEventsRequest{}
		req.CompanyID, _ = cmd.Flags().GetString("company")
		req.Method, _ = cmd.Flags().GetStringSlice("method")
		req.Status, _ = cmd.Flags().GetStringSlice("status")
		req.Search, _ = cmd.Flags().GetString("search")
		req.Sort, _ = cmd.Flags().GetString("sort")
		req.Limit, _ = cmd.Flags().GetInt("limit")
		req.Offset, _ = cmd.Flags().GetInt("offset")

		var err error
		if req.From, err = parseDateFlag(cmd, "from"); err != nil {
			return err
		}
		if req.To, err = parseDateFlag(cmd, "to"); err != nil {
			return err
		}

		resp, err := commClient.ListEvents(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
		} else {
			printEventListTable(resp.Events, resp.Total)
		}
		return nil
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a communication event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := commClient.GetEvent(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(event)
		} else {
			printEventTable(event)
		}
		return nil
	},
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update event fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateEventRequest{}
		if cmd.Flags().Changed("method") {
			v, _ := cmd.Flags().GetString("method")
			req.Method = &v
		}
		if cmd.Flags().Changed("date") {
			s, _ := cmd.Flags().GetString("date")
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
			}
			req.Date = &d
		}
		if cmd.Flags().Changed("notes") {
			v, _ := cmd.Flags().GetString("notes")
			req.Notes = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}

		event, err := commClient.UpdateEvent(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(event)
		} else {
			fmt.Printf("updated event %s\n", event.ID)
		}
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a communication event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commClient.DeleteEvent(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted event %s\n", args[0])
		return nil
	},
}

// parseDateFlag reads a YYYY-MM-DD flag and returns nil when unset.
func parseDateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	s, _ := cmd.Flags().GetString(name)
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s (want YYYY-MM-DD): %w", name, err)
	}
	return &d, nil
}

func init() {
	eventsListCmd.Flags().String("company", "", "filter by company ID")
	eventsListCmd.Flags().StringSlice("method", nil, "filter by method (repeatable)")
	eventsListCmd.Flags().StringSlice("status", nil, "filter by status (repeatable)")
	eventsListCmd.Flags().String("from", "", "inclusive lower date bound (YYYY-MM-DD)")
	eventsListCmd.Flags().String("to", "", "exclusive upper date bound (YYYY-MM-DD)")
	eventsListCmd.Flags().String("search", "", "substring match on notes and company name")
	eventsListCmd.Flags().String("sort", "", `sort field, "-" prefix for descending (date, created_at, updated_at, method)`)
	eventsListCmd.Flags().Int("limit", 50, "maximum events to return")
	eventsListCmd.Flags().Int("offset", 0, "offset into the result set")

	eventsUpdateCmd.Flags().String("method", "", "communication method name")
	eventsUpdateCmd.Flags().String("date", "", "event date as YYYY-MM-DD")
	eventsUpdateCmd.Flags().String("notes", "", "free-text notes")
	eventsUpdateCmd.Flags().String("status", "", "event status (pending, confirmed, failed)")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsUpdateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
}
