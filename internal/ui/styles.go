package ui

import (
	"fmt"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// ANSI256 color codes.
const (
	colorAccent   = 74  // blue
	colorMuted    = 245 // medium gray
	colorOK       = 114 // green
	colorWarn     = 214 // orange
	colorDanger   = 203 // red
	colorCritical = 196 // bright red
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderSeverity colorizes a fire zone severity for terminal output.
func RenderSeverity(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical:
		return render(colorCritical, string(sev))
	case model.SeverityHigh:
		return render(colorDanger, string(sev))
	case model.SeverityMedium:
		return render(colorWarn, string(sev))
	default:
		return render(colorMuted, string(sev))
	}
}

// RenderZoneStatus colorizes a fire zone status. Active burns red,
// contained is orange, everything else reads as calm.
func RenderZoneStatus(status model.ZoneStatus) string {
	switch status {
	case model.ZoneActive:
		return render(colorDanger, string(status))
	case model.ZoneContained:
		return render(colorWarn, string(status))
	case model.ZoneExtinguished:
		return render(colorOK, string(status))
	default:
		return render(colorMuted, string(status))
	}
}

// RenderPointStatus colorizes a security point status.
func RenderPointStatus(status model.PointStatus) string {
	switch status {
	case model.PointBreached:
		return render(colorCritical, string(status))
	case model.PointAlert:
		return render(colorWarn, string(status))
	case model.PointSecure:
		return render(colorOK, string(status))
	default:
		return render(colorMuted, string(status))
	}
}

// RenderMemberStatus colorizes a team member availability status.
func RenderMemberStatus(status model.MemberStatus) string {
	switch status {
	case model.MemberResponding:
		return render(colorWarn, string(status))
	case model.MemberAvailable:
		return render(colorOK, string(status))
	default:
		return render(colorMuted, string(status))
	}
}

// RenderFeedStatus colorizes a live feed status.
func RenderFeedStatus(status model.FeedStatus) string {
	if status == model.FeedOnline {
		return render(colorOK, string(status))
	}
	return render(colorDanger, string(status))
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
