package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

var memberCmd = &cobra.Command{
	Use:     "member",
	Short:   "Manage team members",
	GroupID: "records",
}

var memberCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Add a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateTeamMemberRequest{Name: args[0]}
		req.Role, _ = cmd.Flags().GetString("role")
		req.Phone, _ = cmd.Flags().GetString("phone")
		req.Status, _ = cmd.Flags().GetString("status")
		req.VisibleOnMap, _ = cmd.Flags().GetBool("on-map")
		if cmd.Flags().Changed("lat") {
			v, _ := cmd.Flags().GetFloat64("lat")
			req.Latitude = &v
		}
		if cmd.Flags().Changed("lng") {
			v, _ := cmd.Flags().GetFloat64("lng")
			req.Longitude = &v
		}

		member, err := farmClient.CreateTeamMember(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(member)
		} else {
			printMember(member)
		}
		return nil
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := farmClient.ListTeamMembers(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(members)
		} else {
			printMemberTable(members)
		}
		return nil
	},
}

var memberShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		member, err := farmClient.GetTeamMember(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(member)
		} else {
			printMember(member)
		}
		return nil
	},
}

var memberStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a team member's availability status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		member, err := farmClient.UpdateTeamMemberStatus(context.Background(), args[0], model.MemberStatus(args[1]))
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(member)
		} else {
			printMember(member)
		}
		return nil
	},
}

var memberLocateCmd = &cobra.Command{
	Use:   "locate <id> <lat> <lng>",
	Short: "Report a team member's position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[1])
		}
		lng, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[2])
		}
		hidden, _ := cmd.Flags().GetBool("hidden")

		member, err := farmClient.UpdateTeamMemberLocation(context.Background(), args[0], lat, lng, !hidden)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(member)
		} else {
			printMember(member)
		}
		return nil
	},
}

var memberUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a team member (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateTeamMemberRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetString("role")
			req.Role = &v
		}
		if cmd.Flags().Changed("phone") {
			v, _ := cmd.Flags().GetString("phone")
			req.Phone = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("on-map") {
			v, _ := cmd.Flags().GetBool("on-map")
			req.VisibleOnMap = &v
		}

		member, err := farmClient.UpdateTeamMember(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(member)
		} else {
			printMember(member)
		}
		return nil
	},
}

var memberDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.DeleteTeamMember(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("team member %s removed\n", args[0])
		return nil
	},
}

func init() {
	memberCreateCmd.Flags().String("role", "", "role (e.g. ranger, medic)")
	memberCreateCmd.Flags().String("phone", "", "phone number")
	memberCreateCmd.Flags().String("status", "", "status (defaults to available)")
	memberCreateCmd.Flags().Bool("on-map", true, "show the member on the map")
	memberCreateCmd.Flags().Float64("lat", 0, "latitude")
	memberCreateCmd.Flags().Float64("lng", 0, "longitude")

	memberLocateCmd.Flags().Bool("hidden", false, "report position without showing on the map")

	memberUpdateCmd.Flags().String("name", "", "new name")
	memberUpdateCmd.Flags().String("role", "", "new role")
	memberUpdateCmd.Flags().String("phone", "", "new phone number")
	memberUpdateCmd.Flags().String("status", "", "new status")
	memberUpdateCmd.Flags().Bool("on-map", true, "show the member on the map")

	memberCmd.AddCommand(memberCreateCmd)
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberShowCmd)
	memberCmd.AddCommand(memberStatusCmd)
	memberCmd.AddCommand(memberLocateCmd)
	memberCmd.AddCommand(memberUpdateCmd)
	memberCmd.AddCommand(memberDeleteCmd)
}
