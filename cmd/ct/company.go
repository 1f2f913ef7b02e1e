package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/client"
)

var companyCmd = &cobra.Command{
	Use:     "company",
	Short:   "Manage the company directory",
	GroupID: "directory",
}

var companyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateCompanyRequest{Name: args[0]}
		req.Location, _ = cmd.Flags().GetString("location")
		req.LinkedIn, _ = cmd.Flags().GetString("linkedin")
		req.Emails, _ = cmd.Flags().GetStringSlice("email")
		req.Phones, _ = cmd.Flags().GetStringSlice("phone")
		req.Comments, _ = cmd.Flags().GetString("comments")
		req.PeriodicityDays, _ = cmd.Flags().GetInt("periodicity")

		company, err := commClient.CreateCompany(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(company)
		} else {
			fmt.Printf("created company %s\n", company.ID)
		}
		return nil
	},
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		companies, err := commClient.ListCompanies(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(companies)
		} else {
			printCompanyListTable(companies)
		}
		return nil
	},
}

var companyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company, err := commClient.GetCompany(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(company)
		} else {
			printCompanyTable(company)
		}
		return nil
	},
}

var companyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update company fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateCompanyRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("location") {
			v, _ := cmd.Flags().GetString("location")
			req.Location = &v
		}
		if cmd.Flags().Changed("linkedin") {
			v, _ := cmd.Flags().GetString("linkedin")
			req.LinkedIn = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetStringSlice("email")
			req.Emails = &v
		}
		if cmd.Flags().Changed("phone") {
			v, _ := cmd.Flags().GetStringSlice("phone")
			req.Phones = &v
		}
		if cmd.Flags().Changed("comments") {
			v, _ := cmd.Flags().GetString("comments")
			req.Comments = &v
		}
		if cmd.Flags().Changed("periodicity") {
			v, _ := cmd.Flags().GetInt("periodicity")
			req.PeriodicityDays = &v
		}

		company, err := commClient.UpdateCompany(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(company)
		} else {
			fmt.Printf("updated company %s\n", company.ID)
		}
		return nil
	},
}

var companyHighlightCmd = &cobra.Command{
	Use:   "highlight <id> <on|off>",
	Short: "Enable or disable overdue highlighting for a company",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var disabled bool
		switch args[1] {
		case "on":
			disabled = false
		case "off":
			disabled = true
		default:
			return fmt.Errorf("expected on or off, got %q", args[1])
		}

		company, err := commClient.SetCompanyHighlight(context.Background(), args[0], disabled)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(company)
		} else if company.HighlightDisabled {
			fmt.Printf("highlighting disabled for %s\n", company.Name)
		} else {
			fmt.Printf("highlighting enabled for %s\n", company.Name)
		}
		return nil
	},
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a company and its events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commClient.DeleteCompany(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted company %s\n", args[0])
		return nil
	},
}

func init() {
	companyAddCmd.Flags().String("location", "", "company location")
	companyAddCmd.Flags().String("linkedin", "", "LinkedIn profile URL")
	companyAddCmd.Flags().StringSlice("email", nil, "contact email (repeatable)")
	companyAddCmd.Flags().StringSlice("phone", nil, "contact phone (repeatable)")
	companyAddCmd.Flags().String("comments", "", "free-text comments")
	companyAddCmd.Flags().Int("periodicity", 0, "expected days between communications (0 = none)")

	companyUpdateCmd.Flags().String("name", "", "company name")
	companyUpdateCmd.Flags().String("location", "", "company location")
	companyUpdateCmd.Flags().String("linkedin", "", "LinkedIn profile URL")
	companyUpdateCmd.Flags().StringSlice("email", nil, "contact email (repeatable)")
	companyUpdateCmd.Flags().StringSlice("phone", nil, "contact phone (repeatable)")
	companyUpdateCmd.Flags().String("comments", "", "free-text comments")
	companyUpdateCmd.Flags().Int("periodicity", 0, "expected days between communications")

	companyCmd.AddCommand(companyAddCmd)
	companyCmd.AddCommand(companyListCmd)
	companyCmd.AddCommand(companyShowCmd)
	companyCmd.AddCommand(companyUpdateCmd)
	companyCmd.AddCommand(companyHighlightCmd)
	companyCmd.AddCommand(companyDeleteCmd)
}
