package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard [<company-id>]",
	Short:   "Show per-company communication status",
	GroupID: "views",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now().UTC()

		if len(args) == 1 {
			row, err := commClient.CompanyDashboard(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(row)
				return nil
			}
			printCompanyTable(row.Company)
			fmt.Println()
			if len(row.LastCommunications) > 0 {
				fmt.Println("Recent communications:")
				for _, e := range row.LastCommunications {
					fmt.Printf("  %s  %s  %s\n", e.Date.Format("2006-01-02"), e.Method, e.Notes)
				}
			}
			if row.NextCommunication != nil {
				fmt.Printf("Next: %s (%s)\n",
					row.NextCommunication.Date.Format("2006-01-02"), row.NextCommunication.Method)
			}
			if row.Overdue {
				fmt.Println("Status: overdue")
			}
			if row.DueToday {
				fmt.Println("Status: due today")
			}
			return nil
		}

		rows, err := commClient.Dashboard(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(rows)
		} else {
			printDashboardTable(rows, now)
		}
		return nil
	},
}
