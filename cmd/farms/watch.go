package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/live"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/realtime"
	"github.com/IvubaServices/FarmSecure-sub000/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Live dashboard fed by the change stream",
	GroupID: "live",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("FARMS_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL; pass --nats or set FARMS_NATS_URL")
		}
		resync, _ := cmd.Flags().GetDuration("resync")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		remote := client.NewHTTPClient(httpURL, authToken)

		seed, err := live.FetchSnapshot(ctx, remote)
		if err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}

		session := live.NewSession(live.SessionConfig{
			Remote:         remote,
			Stream:         realtime.NewNATSStream(natsURL, logger),
			Seed:           seed,
			ResyncInterval: resync,
			OnDegraded: func(c model.Collection, err error) {
				fmt.Fprintf(os.Stderr, "subscription for %s gave up: %v\n", c, err)
			},
			Logger: logger,
		})

		// Coalesce bursts of events into one redraw.
		dirty := make(chan struct{}, 1)
		markDirty := func() {
			select {
			case dirty <- struct{}{}:
			default:
			}
		}
		session.Store().OnChange(markDirty)
		session.OnConnectivityChange(markDirty)

		session.Start()
		defer session.Close()

		drawDashboard(session)
		debounce := time.NewTimer(0)
		debounce.Stop()
		select {
		case <-debounce.C:
		default:
		}

		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				return nil
			case <-dirty:
				debounce.Reset(200 * time.Millisecond)
			case <-debounce.C:
				drawDashboard(session)
			}
		}
	},
}

// drawDashboard clears the screen and prints the current live state.
func drawDashboard(session *live.Session) {
	store := session.Store()
	zones := store.FireZones()
	points := store.SecurityPoints()
	members := store.TeamMembers()

	fmt.Print("\x1b[2J\x1b[H")

	conn := ui.RenderMuted("CONNECTING")
	if session.Connected() {
		conn = ui.RenderAccent("LIVE")
	} else if st, ok := session.SubscriptionStatus(model.CollectionFireZones); ok && !st.Connected && st.Err != nil {
		conn = ui.RenderMuted("DEGRADED")
	}
	fmt.Printf("farms watch  [%s]  updated %s\n\n", conn, store.LastUpdated().Format(timeFormat))

	fmt.Println("Fire zones")
	printZoneTable(zones)
	fmt.Println()
	fmt.Println("Security points")
	printPointTable(points)
	fmt.Println()
	fmt.Println("Team members")
	printMemberTable(members)
	if err := store.LastError(); err != nil {
		fmt.Printf("\nlast resync error: %v\n", err)
	}
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS URL for the change stream")
	watchCmd.Flags().Duration("resync", 0, "periodic full resync interval (0 disables)")
}
