package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show a one-shot summary of the farm state",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		health, err := farmClient.Health(ctx)
		if err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}

		zones, err := farmClient.ListFireZones(ctx, model.ZoneFilter{})
		if err != nil {
			return err
		}
		points, err := farmClient.ListSecurityPoints(ctx)
		if err != nil {
			return err
		}
		members, err := farmClient.ListTeamMembers(ctx)
		if err != nil {
			return err
		}
		feeds, err := farmClient.ListLiveFeeds(ctx)
		if err != nil {
			return err
		}

		var activeZones, criticalZones int
		for _, z := range zones {
			if z.Status == model.ZoneActive {
				activeZones++
			}
			if z.Severity == model.SeverityCritical {
				criticalZones++
			}
		}
		var breached int
		for _, p := range points {
			if p.Status == model.PointBreached {
				breached++
			}
		}
		var responding int
		for _, m := range members {
			if m.Status == model.MemberResponding {
				responding++
			}
		}
		var feedsOnline int
		for _, f := range feeds {
			if f.Status == model.FeedOnline {
				feedsOnline++
			}
		}

		if jsonOutput {
			printJSON(map[string]any{
				"health":          health,
				"fire_zones":      len(zones),
				"active_zones":    activeZones,
				"critical_zones":  criticalZones,
				"security_points": len(points),
				"breached_points": breached,
				"team_members":    len(members),
				"responding":      responding,
				"live_feeds":      len(feeds),
				"feeds_online":    feedsOnline,
			})
			return nil
		}

		fmt.Printf("Server:          %s (%s)\n", httpURL, health)
		fmt.Printf("Fire zones:      %d (%d active, %d critical)\n", len(zones), activeZones, criticalZones)
		fmt.Printf("Security points: %d (%d breached)\n", len(points), breached)
		fmt.Printf("Team members:    %d (%d responding)\n", len(members), responding)
		fmt.Printf("Live feeds:      %d (%d online)\n", len(feeds), feedsOnline)
		if criticalZones > 0 || breached > 0 {
			fmt.Println(ui.RenderAccent("attention needed: open incidents above"))
		}
		return nil
	},
}
