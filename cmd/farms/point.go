package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
)

var pointCmd = &cobra.Command{
	Use:     "point",
	Short:   "Manage security points",
	GroupID: "records",
}

var pointCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a security point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateSecurityPointRequest{Name: args[0]}
		req.Type, _ = cmd.Flags().GetString("type")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Latitude, _ = cmd.Flags().GetFloat64("lat")
		req.Longitude, _ = cmd.Flags().GetFloat64("lng")

		point, err := farmClient.CreateSecurityPoint(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(point)
		} else {
			printPoint(point)
		}
		return nil
	},
}

var pointListCmd = &cobra.Command{
	Use:   "list",
	Short: "List security points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := farmClient.ListSecurityPoints(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(points)
		} else {
			printPointTable(points)
		}
		return nil
	},
}

var pointShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a security point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		point, err := farmClient.GetSecurityPoint(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(point)
		} else {
			printPoint(point)
		}
		return nil
	},
}

var pointUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a security point (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateSecurityPointRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			req.Type = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("lat") {
			v, _ := cmd.Flags().GetFloat64("lat")
			req.Latitude = &v
		}
		if cmd.Flags().Changed("lng") {
			v, _ := cmd.Flags().GetFloat64("lng")
			req.Longitude = &v
		}

		point, err := farmClient.UpdateSecurityPoint(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(point)
		} else {
			printPoint(point)
		}
		return nil
	},
}

var pointDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a security point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.DeleteSecurityPoint(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("security point %s deleted\n", args[0])
		return nil
	},
}

func init() {
	pointCreateCmd.Flags().String("type", "camera", "point type (camera, gate, sensor, ...)")
	pointCreateCmd.Flags().String("status", "", "status (defaults to secure)")
	pointCreateCmd.Flags().String("description", "", "description")
	pointCreateCmd.Flags().Float64("lat", 0, "latitude")
	pointCreateCmd.Flags().Float64("lng", 0, "longitude")

	pointUpdateCmd.Flags().String("name", "", "new name")
	pointUpdateCmd.Flags().String("description", "", "new description")
	pointUpdateCmd.Flags().String("type", "", "new type")
	pointUpdateCmd.Flags().String("status", "", "new status")
	pointUpdateCmd.Flags().Float64("lat", 0, "new latitude")
	pointUpdateCmd.Flags().Float64("lng", 0, "new longitude")

	pointCmd.AddCommand(pointCreateCmd)
	pointCmd.AddCommand(pointListCmd)
	pointCmd.AddCommand(pointShowCmd)
	pointCmd.AddCommand(pointUpdateCmd)
	pointCmd.AddCommand(pointDeleteCmd)
}
