package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/live"
)

var refreshCmd = &cobra.Command{
	Use:     "refresh",
	Short:   "Fetch a full snapshot of zones, points, and members",
	GroupID: "live",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		remote := client.NewHTTPClient(httpURL, authToken)

		// Start empty and resync; collections that fetch fine are kept
		// even when others fail.
		store := live.NewStore(remote, live.Snapshot{}, logger)
		refreshErr := store.Refresh(context.Background())

		if jsonOutput {
			printJSON(map[string]any{
				"fire_zones":      store.FireZones(),
				"security_points": store.SecurityPoints(),
				"team_members":    store.TeamMembers(),
			})
		} else {
			fmt.Println("Fire zones")
			printZoneTable(store.FireZones())
			fmt.Println()
			fmt.Println("Security points")
			printPointTable(store.SecurityPoints())
			fmt.Println()
			fmt.Println("Team members")
			printMemberTable(store.TeamMembers())
		}
		return refreshErr
	},
}
