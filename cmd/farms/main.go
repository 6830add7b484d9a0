package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/ui"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	noColor    bool

	farmClient client.FarmClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("FARMS_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultAuthToken() string {
	if s := os.Getenv("FARMS_AUTH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "farms <command>",
	Short: "CLI client for the farm incident service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		farmClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if farmClient != nil {
			farmClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultAuthToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "live", Title: "Live:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Records
	rootCmd.AddCommand(zoneCmd)
	rootCmd.AddCommand(pointCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(mapConfigCmd)

	// Live
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(refreshCmd)

	// System
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
