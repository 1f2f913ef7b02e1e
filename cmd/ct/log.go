package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/client"
	"github.com/groblegark/commtrack/internal/idgen"
)

var logCmd = &cobra.Command{
	Use:     "log <company-id>",
	Short:   "Log a communication with a company",
	GroupID: "tracking",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, _ := cmd.Flags().GetString("method")
		dateStr, _ := cmd.Flags().GetString("date")
		notes, _ := cmd.Flags().GetString("notes")

		date := time.Now().UTC()
		if dateStr != "" {
			var err error
			date, err = time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
			}
		}

		// Generate the ID client-side so a retried request cannot produce
		// a duplicate entry.
		id, err := idgen.Generate(idgen.PrefixEvent)
		if err != nil {
			return err
		}

		event, err := commClient.CreateEvent(context.Background(), &client.CreateEventRequest{
			ID:        id,
			CompanyID: args[0],
			Method:    method,
			Date:      date,
			Notes:     notes,
			CreatedBy: actor,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(event)
		} else {
			fmt.Printf("logged %s with %s on %s (%s)\n",
				event.Method, event.CompanyName, event.Date.Format("2006-01-02"), event.ID)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().String("method", "", "communication method name (required)")
	logCmd.Flags().String("date", "", "event date as YYYY-MM-DD (default today)")
	logCmd.Flags().String("notes", "", "free-text notes")
	logCmd.MarkFlagRequired("method")
}
