package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/ui"
)

const timeFormat = "2006-01-02 15:04:05"

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printZone(z *model.FireZone) {
	fmt.Printf("ID:          %s\n", z.ID)
	fmt.Printf("Name:        %s\n", z.Name)
	fmt.Printf("Severity:    %s\n", ui.RenderSeverity(z.Severity))
	fmt.Printf("Status:      %s\n", ui.RenderZoneStatus(z.Status))
	fmt.Printf("Location:    %.5f, %.5f\n", z.Latitude, z.Longitude)
	if z.RadiusMeters > 0 {
		fmt.Printf("Radius:      %.0fm\n", z.RadiusMeters)
	}
	if z.Description != "" {
		fmt.Printf("Description: %s\n", z.Description)
	}
	if z.ReportedBy != "" {
		fmt.Printf("Reported By: %s\n", z.ReportedBy)
	}
	if !z.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", z.CreatedAt.Format(timeFormat))
	}
	if !z.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", z.UpdatedAt.Format(timeFormat))
	}
}

func printZoneTable(zones []model.FireZone) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tSTATUS\tNAME\tLOCATION")
	for i := range zones {
		z := &zones[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.5f, %.5f\n",
			z.ID, ui.RenderSeverity(z.Severity), ui.RenderZoneStatus(z.Status), z.Name, z.Latitude, z.Longitude)
	}
	w.Flush()
	fmt.Printf("\n%d fire zones\n", len(zones))
}

func printPoint(p *model.SecurityPoint) {
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Name:        %s\n", p.Name)
	fmt.Printf("Type:        %s\n", p.Type)
	fmt.Printf("Status:      %s\n", ui.RenderPointStatus(p.Status))
	fmt.Printf("Location:    %.5f, %.5f\n", p.Latitude, p.Longitude)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if !p.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", p.CreatedAt.Format(timeFormat))
	}
	if !p.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", p.UpdatedAt.Format(timeFormat))
	}
}

func printPointTable(points []model.SecurityPoint) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tNAME\tLOCATION")
	for i := range points {
		p := &points[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.5f, %.5f\n",
			p.ID, p.Type, ui.RenderPointStatus(p.Status), p.Name, p.Latitude, p.Longitude)
	}
	w.Flush()
	fmt.Printf("\n%d security points\n", len(points))
}

func memberLocation(m *model.TeamMember) string {
	if m.Latitude == nil || m.Longitude == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f, %.5f", *m.Latitude, *m.Longitude)
}

func printMember(m *model.TeamMember) {
	fmt.Printf("ID:          %s\n", m.ID)
	fmt.Printf("Name:        %s\n", m.Name)
	if m.Role != "" {
		fmt.Printf("Role:        %s\n", m.Role)
	}
	if m.Phone != "" {
		fmt.Printf("Phone:       %s\n", m.Phone)
	}
	fmt.Printf("Status:      %s\n", ui.RenderMemberStatus(m.Status))
	fmt.Printf("Location:    %s\n", memberLocation(m))
	fmt.Printf("On Map:      %t\n", m.VisibleOnMap)
	if !m.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", m.UpdatedAt.Format(timeFormat))
	}
}

func printMemberTable(members []model.TeamMember) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tNAME\tROLE\tLOCATION")
	for i := range members {
		m := &members[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, ui.RenderMemberStatus(m.Status), m.Name, m.Role, memberLocation(m))
	}
	w.Flush()
	fmt.Printf("\n%d team members\n", len(members))
}

func printNotificationTable(notifications []model.Notification) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEVEL\tREAD\tTITLE\tCREATED")
	for i := range notifications {
		n := &notifications[i]
		read := ""
		if n.Read {
			read = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.Level, read, n.Title, n.CreatedAt.Format(timeFormat))
	}
	w.Flush()
	fmt.Printf("\n%d notifications\n", len(notifications))
}

func printMapConfigTable(configs []model.MapConfig) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCENTER\tZOOM\tLAYER\tDEFAULT")
	for i := range configs {
		c := &configs[i]
		def := ""
		if c.IsDefault {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%.5f, %.5f\t%d\t%s\t%s\n",
			c.ID, c.Name, c.CenterLat, c.CenterLng, c.Zoom, c.Layer, def)
	}
	w.Flush()
	fmt.Printf("\n%d map configs\n", len(configs))
}

func printFeedTable(feeds []model.LiveFeedSetting) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tENABLED\tNAME\tLAST SEEN")
	for i := range feeds {
		f := &feeds[i]
		lastSeen := "-"
		if f.LastSeenAt != nil {
			lastSeen = f.LastSeenAt.Format(timeFormat)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n",
			f.ID, ui.RenderFeedStatus(f.Status), f.Enabled, f.Name, lastSeen)
	}
	w.Flush()
	fmt.Printf("\n%d live feeds\n", len(feeds))
}
