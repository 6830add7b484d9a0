package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

var zoneCmd = &cobra.Command{
	Use:     "zone",
	Short:   "Manage fire zones",
	GroupID: "records",
}

var zoneCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Report a new fire zone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateFireZoneRequest{Name: args[0]}
		req.Severity, _ = cmd.Flags().GetString("severity")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Latitude, _ = cmd.Flags().GetFloat64("lat")
		req.Longitude, _ = cmd.Flags().GetFloat64("lng")
		req.RadiusMeters, _ = cmd.Flags().GetFloat64("radius")
		req.ReportedBy, _ = cmd.Flags().GetString("reported-by")

		zone, err := farmClient.CreateFireZone(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(zone)
		} else {
			printZone(zone)
		}
		return nil
	},
}

var zoneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fire zones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter model.ZoneFilter
		if statuses, _ := cmd.Flags().GetString("status"); statuses != "" {
			for _, s := range strings.Split(statuses, ",") {
				filter.Status = append(filter.Status, model.ZoneStatus(strings.TrimSpace(s)))
			}
		}
		if severities, _ := cmd.Flags().GetString("severity"); severities != "" {
			for _, s := range strings.Split(severities, ",") {
				filter.Severity = append(filter.Severity, model.Severity(strings.TrimSpace(s)))
			}
		}
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		zones, err := farmClient.ListFireZones(context.Background(), filter)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(zones)
		} else {
			printZoneTable(zones)
		}
		return nil
	},
}

var zoneShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a fire zone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zone, err := farmClient.GetFireZone(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(zone)
		} else {
			printZone(zone)
		}
		return nil
	},
}

var zoneUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a fire zone (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateFireZoneRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("severity") {
			v, _ := cmd.Flags().GetString("severity")
			req.Severity = &v
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
		if cmd.Flags().Changed("radius") {
			v, _ := cmd.Flags().GetFloat64("radius")
			req.RadiusMeters = &v
		}

		zone, err := farmClient.UpdateFireZone(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(zone)
		} else {
			printZone(zone)
		}
		return nil
	},
}

var zoneDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a fire zone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.DeleteFireZone(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("fire zone %s deleted\n", args[0])
		return nil
	},
}

func init() {
	zoneCreateCmd.Flags().String("severity", "medium", "severity (low, medium, high, critical)")
	zoneCreateCmd.Flags().String("status", "", "status (defaults to active)")
	zoneCreateCmd.Flags().String("description", "", "description")
	zoneCreateCmd.Flags().Float64("lat", 0, "latitude")
	zoneCreateCmd.Flags().Float64("lng", 0, "longitude")
	zoneCreateCmd.Flags().Float64("radius", 0, "radius in meters")
	zoneCreateCmd.Flags().String("reported-by", "", "who reported the zone")

	zoneListCmd.Flags().String("status", "", "comma-separated status filter")
	zoneListCmd.Flags().String("severity", "", "comma-separated severity filter")
	zoneListCmd.Flags().Int("limit", 0, "max zones to return")

	zoneUpdateCmd.Flags().String("name", "", "new name")
	zoneUpdateCmd.Flags().String("description", "", "new description")
	zoneUpdateCmd.Flags().String("severity", "", "new severity")
	zoneUpdateCmd.Flags().String("status", "", "new status")
	zoneUpdateCmd.Flags().Float64("lat", 0, "new latitude")
	zoneUpdateCmd.Flags().Float64("lng", 0, "new longitude")
	zoneUpdateCmd.Flags().Float64("radius", 0, "new radius in meters")

	zoneCmd.AddCommand(zoneCreateCmd)
	zoneCmd.AddCommand(zoneListCmd)
	zoneCmd.AddCommand(zoneShowCmd)
	zoneCmd.AddCommand(zoneUpdateCmd)
	zoneCmd.AddCommand(zoneDeleteCmd)
}
