package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvubaServices/FarmSecure-sub000/internal/client"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

var mapConfigCmd = &cobra.Command{
	Use:     "map-config",
	Short:   "Manage saved map configurations",
	GroupID: "records",
}

var mapConfigCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Save a map configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.CreateMapConfigRequest{Name: args[0]}
		req.CenterLat, _ = cmd.Flags().GetFloat64("lat")
		req.CenterLng, _ = cmd.Flags().GetFloat64("lng")
		req.Zoom, _ = cmd.Flags().GetInt("zoom")
		req.Layer, _ = cmd.Flags().GetString("layer")
		req.IsDefault, _ = cmd.Flags().GetBool("default")

		mc, err := farmClient.CreateMapConfig(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(mc)
		} else {
			fmt.Printf("map config %s saved\n", mc.ID)
		}
		return nil
	},
}

var mapConfigListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved map configurations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := farmClient.ListMapConfigs(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(configs)
		} else {
			printMapConfigTable(configs)
		}
		return nil
	},
}

var mapConfigShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a map configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mc, err := farmClient.GetMapConfig(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(mc)
		} else {
			printMapConfigTable([]model.MapConfig{*mc})
		}
		return nil
	},
}

var mapConfigUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a map configuration (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateMapConfigRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("lat") {
			v, _ := cmd.Flags().GetFloat64("lat")
			req.CenterLat = &v
		}
		if cmd.Flags().Changed("lng") {
			v, _ := cmd.Flags().GetFloat64("lng")
			req.CenterLng = &v
		}
		if cmd.Flags().Changed("zoom") {
			v, _ := cmd.Flags().GetInt("zoom")
			req.Zoom = &v
		}
		if cmd.Flags().Changed("layer") {
			v, _ := cmd.Flags().GetString("layer")
			req.Layer = &v
		}
		if cmd.Flags().Changed("default") {
			v, _ := cmd.Flags().GetBool("default")
			req.IsDefault = &v
		}

		mc, err := farmClient.UpdateMapConfig(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(mc)
		} else {
			fmt.Printf("map config %s updated\n", mc.ID)
		}
		return nil
	},
}

var mapConfigDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a map configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := farmClient.DeleteMapConfig(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("map config %s deleted\n", args[0])
		return nil
	},
}

func init() {
	mapConfigCreateCmd.Flags().Float64("lat", 0, "center latitude")
	mapConfigCreateCmd.Flags().Float64("lng", 0, "center longitude")
	mapConfigCreateCmd.Flags().Int("zoom", 12, "zoom level")
	mapConfigCreateCmd.Flags().String("layer", "", "base layer name")
	mapConfigCreateCmd.Flags().Bool("default", false, "make this the default view")

	mapConfigUpdateCmd.Flags().String("name", "", "new name")
	mapConfigUpdateCmd.Flags().Float64("lat", 0, "new center latitude")
	mapConfigUpdateCmd.Flags().Float64("lng", 0, "new center longitude")
	mapConfigUpdateCmd.Flags().Int("zoom", 0, "new zoom level")
	mapConfigUpdateCmd.Flags().String("layer", "", "new base layer name")
	mapConfigUpdateCmd.Flags().Bool("default", false, "make this the default view")

	mapConfigCmd.AddCommand(mapConfigCreateCmd)
	mapConfigCmd.AddCommand(mapConfigListCmd)
	mapConfigCmd.AddCommand(mapConfigShowCmd)
	mapConfigCmd.AddCommand(mapConfigUpdateCmd)
	mapConfigCmd.AddCommand(mapConfigDeleteCmd)
}
