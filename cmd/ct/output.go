package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printCompanyTable(c *model.Company) {
	fmt.Printf("ID:          %s\n", c.ID)
	fmt.Printf("Name:        %s\n", c.Name)
	if c.Location != "" {
		fmt.Printf("Location:    %s\n", c.Location)
	}
	if c.LinkedIn != "" {
		fmt.Printf("LinkedIn:    %s\n", c.LinkedIn)
	}
	if len(c.Emails) > 0 {
		fmt.Printf("Emails:      %s\n", strings.Join(c.Emails, ", "))
	}
	if len(c.Phones) > 0 {
		fmt.Printf("Phones:      %s\n", strings.Join(c.Phones, ", "))
	}
	if c.Comments != "" {
		fmt.Printf("Comments:    %s\n", c.Comments)
	}
	if c.PeriodicityDays > 0 {
		fmt.Printf("Cadence:     every %d days\n", c.PeriodicityDays)
	}
	if c.HighlightDisabled {
		fmt.Printf("Highlights:  disabled\n")
	}
	if !c.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", c.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printCompanyListTable(companies []*model.Company) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tCADENCE\tEMAILS")
	for _, c := range companies {
		cadence := "-"
		if c.PeriodicityDays > 0 {
			cadence = fmt.Sprintf("%dd", c.PeriodicityDays)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.Name,
			c.Location,
			cadence,
			strings.Join(c.Emails, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d companies\n", len(companies))
}

func printMethodListTable(methods []*model.Method) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEQ\tNAME\tMANDATORY\tDESCRIPTION")
	for _, m := range methods {
		mandatory := ""
		if m.Mandatory {
			mandatory = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", m.ID, m.Sequence, m.Name, mandatory, m.Description)
	}
	w.Flush()
	fmt.Printf("\n%d methods\n", len(methods))
}

func printEventTable(e *model.CommEvent) {
	fmt.Printf("ID:          %s\n", e.ID)
	fmt.Printf("Company:     %s (%s)\n", e.CompanyName, e.CompanyID)
	fmt.Printf("Method:      %s\n", e.Method)
	fmt.Printf("Date:        %s\n", e.Date.Format("2006-01-02"))
	fmt.Printf("Status:      %s\n", e.Status)
	if e.Notes != "" {
		fmt.Printf("Notes:       %s\n", e.Notes)
	}
	if e.CreatedBy != "" {
		fmt.Printf("Created By:  %s\n", e.CreatedBy)
	}
	if !e.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printEventListTable(events []*model.CommEvent, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tMETHOD\tCOMPANY\tSTATUS\tNOTES")
	for _, e := range events {
		notes := e.Notes
		if len(notes) > 50 {
			notes = notes[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Date.Format("2006-01-02"),
			e.Method,
			e.CompanyName,
			e.Status,
			notes,
		)
	}
	w.Flush()
	fmt.Printf("\n%d events (%d total)\n", len(events), total)
}

func printDashboardTable(rows []*model.DashboardRow, now time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tLAST\tNEXT\tFLAGS")
	for _, row := range rows {
		last := "-"
		if len(row.LastCommunications) > 0 {
			e := row.LastCommunications[0]
			last = fmt.Sprintf("%s (%s)", e.Date.Format("2006-01-02"), e.Method)
		}
		next := "-"
		if row.NextCommunication != nil {
			e := row.NextCommunication
			next = fmt.Sprintf("%s (%s)", e.Date.Format("2006-01-02"), e.Method)
		}
		var flags []string
		if row.Overdue {
			flags = append(flags, ui.RenderOverdue("overdue"))
		}
		if row.DueToday {
			flags = append(flags, ui.RenderDueToday("due today"))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Company.Name, last, next, strings.Join(flags, " "))
	}
	w.Flush()
	fmt.Printf("\n%d companies as of %s\n", len(rows), now.Format("2006-01-02"))
}
