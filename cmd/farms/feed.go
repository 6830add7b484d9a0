package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

var feedCmd = &cobra.Command{
	Use:     "feed",
	Short:   "Manage live feeds and their heartbeats",
	GroupID: "live",
}

var feedCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a live feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateLiveFeedRequest{Name: args[0]}
		req.URL, _ = cmd.Flags().GetString("url")
		if cmd.Flags().Changed("enabled") {
			v, _ := cmd.Flags().GetBool("enabled")
			req.Enabled = &v
		}

		feed, err := farmClient.CreateLiveFeed(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(feed)
		} else {
			fmt.Printf("live feed %s registered (%s)\n", feed.ID, feed.Status)
		}
		return nil
	},
}

var feedShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a live feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := farmClient.GetLiveFeed(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(feed)
		} else {
			printFeedTable([]model.LiveFeedSetting{*feed})
		}
		return nil
	},
}

var feedUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a live feed (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateLiveFeedRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("url") {
			v, _ := cmd.Flags().GetString("url")
			req.URL = &v
		}
		if cmd.Flags().Changed("enabled") {
			v, _ := cmd.Flags().GetBool("enabled")
			req.Enabled = &v
		}

		feed, err := farmClient.UpdateLiveFeed(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(feed)
		} else {
			fmt.Printf("live feed %s updated\n", feed.ID)
		}
		return nil
	},
}

var feedDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a live feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.DeleteLiveFeed(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("live feed %s deleted\n", args[0])
		return nil
	},
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live feed settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feeds, err := farmClient.ListLiveFeeds(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(feeds)
		} else {
			printFeedTable(feeds)
		}
		return nil
	},
}

var feedBeatCmd = &cobra.Command{
	Use:   "beat <id>",
	Short: "Send one heartbeat for a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.FeedHeartbeat(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("heartbeat sent for %s\n", args[0])
		return nil
	},
}

var feedRosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show the server's in-memory heartbeat roster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stale, _ := cmd.Flags().GetDuration("stale")

		roster, err := farmClient.GetFeedRoster(context.Background(), stale)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(roster)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FEED\tBEATS\tIDLE\tOFFLINE\tLAST SEEN")
		for _, e := range roster {
			offline := ""
			if e.Offline {
				offline = "yes"
			}
			fmt.Fprintf(w, "%s\t%d\t%.0fs\t%s\t%s\n",
				e.FeedID, e.BeatCount, e.IdleSecs, offline, e.LastSeen.Format(timeFormat))
		}
		w.Flush()
		fmt.Printf("\n%d feeds reporting\n", len(roster))
		return nil
	},
}

func init() {
	feedCreateCmd.Flags().String("url", "", "feed source URL (required)")
	feedCreateCmd.Flags().Bool("enabled", true, "whether the feed is enabled")
	_ = feedCreateCmd.MarkFlagRequired("url")

	feedUpdateCmd.Flags().String("name", "", "new name")
	feedUpdateCmd.Flags().String("url", "", "new source URL")
	feedUpdateCmd.Flags().Bool("enabled", true, "enable or disable the feed")

	feedRosterCmd.Flags().Duration("stale", 0, "hide feeds silent longer than this (e.g. 90s)")

	feedCmd.AddCommand(feedCreateCmd)
	feedCmd.AddCommand(feedListCmd)
	feedCmd.AddCommand(feedShowCmd)
	feedCmd.AddCommand(feedUpdateCmd)
	feedCmd.AddCommand(feedDeleteCmd)
	feedCmd.AddCommand(feedBeatCmd)
	feedCmd.AddCommand(feedRosterCmd)
}
