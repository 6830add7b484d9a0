package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
)

var notifyCmd = &cobra.Command{
	Use:     "notify",
	Short:   "Manage notifications",
	GroupID: "records",
}

var notifyCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Post a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateNotificationRequest{Title: args[0]}
		req.Message, _ = cmd.Flags().GetString("message")
		req.Level, _ = cmd.Flags().GetString("level")

		n, err := farmClient.CreateNotification(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(n)
		} else {
			fmt.Printf("notification %s posted (%s)\n", n.ID, n.Level)
		}
		return nil
	},
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notifications, err := farmClient.ListNotifications(context.Background())
		if err != nil {
			return err
		}
		if unreadOnly, _ := cmd.Flags().GetBool("unread"); unreadOnly {
			filtered := notifications[:0]
			for _, n := range notifications {
				if !n.Read {
					filtered = append(filtered, n)
				}
			}
			notifications = filtered
		}
		if jsonOutput {
			printJSON(notifications)
		} else {
			printNotificationTable(notifications)
		}
		return nil
	},
}

var notifyReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := farmClient.MarkNotificationRead(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(n)
		} else {
			fmt.Printf("notification %s marked read\n", n.ID)
		}
		return nil
	},
}

var notifyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.DeleteNotification(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("notification %s deleted\n", args[0])
		return nil
	},
}

func init() {
	notifyCreateCmd.Flags().String("message", "", "notification body")
	notifyCreateCmd.Flags().String("level", "", "level (info, warning, critical; defaults to info)")

	notifyListCmd.Flags().Bool("unread", false, "only show unread notifications")

	notifyCmd.AddCommand(notifyCreateCmd)
	notifyCmd.AddCommand(notifyListCmd)
	notifyCmd.AddCommand(notifyReadCmd)
	notifyCmd.AddCommand(notifyDeleteCmd)
}
