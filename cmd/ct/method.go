package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/client"
)

var methodCmd = &cobra.Command{
	Use:     "method",
	Short:   "Manage the communication-method catalog",
	GroupID: "directory",
}

var methodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a communication method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateMethodRequest{Name: args[0]}
		req.Description, _ = cmd.Flags().GetString("description")
		req.Sequence, _ = cmd.Flags().GetInt("sequence")
		req.Mandatory, _ = cmd.Flags().GetBool("mandatory")

		method, err := commClient.CreateMethod(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(method)
		} else {
			fmt.Printf("created method %s\n", method.ID)
		}
		return nil
	},
}

var methodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List communication methods in sequence order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		methods, err := commClient.ListMethods(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(methods)
		} else {
			printMethodListTable(methods)
		}
		return nil
	},
}

var methodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a method from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commClient.DeleteMethod(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted method %s\n", args[0])
		return nil
	},
}

func init() {
	methodAddCmd.Flags().String("description", "", "method description")
	methodAddCmd.Flags().Int("sequence", 1, "position in the default outreach sequence")
	methodAddCmd.Flags().Bool("mandatory", false, "whether the method is mandatory in the sequence")

	methodCmd.AddCommand(methodAddCmd)
	methodCmd.AddCommand(methodListCmd)
	methodCmd.AddCommand(methodDeleteCmd)
}
