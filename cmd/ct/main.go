package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/client"
	"github.com/groblegark/commtrack/internal/ui"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	actor      string

	commClient client.CommClient
)

func defaultActor() string {
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "unknown"
}

func defaultHTTPURL() string {
	if s := os.Getenv("CT_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("CT_AUTH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "ct <command>",
	Short: "CLI client for the commtrack service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		commClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if commClient != nil {
			commClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor name for created_by fields")

	rootCmd.AddGroup(
		&cobra.Group{ID: "directory", Title: "Directory:"},
		&cobra.Group{ID: "tracking", Title: "Tracking:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Directory
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(methodCmd)

	// Tracking
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(eventsCmd)

	// Views
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(reportCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
