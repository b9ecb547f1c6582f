package commands

import (
	"fmt"
	"strings"

	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// placementColor picks green for a complete timetable, yellow when the rate
// clears the acceptance threshold and red below it
func placementColor(rate, threshold float64, green, yellow, red string) string {
	switch {
	case rate >= 1:
		return green
	case rate >= threshold:
		return yellow
	default:
		return red
	}
}

// printWarnings lists warnings under a heading, skipping the section when empty
func printWarnings(heading string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("%s⚠️  %s (%d):%s\n", colorYellow, heading, len(warnings), colorReset)
	for _, w := range warnings {
		fmt.Printf("  • %s\n", w)
	}
	fmt.Println()
}

// formatEntry renders one schedule line
func formatEntry(e scheduler.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "P%-2d %-11s %-10s %-12s room %d", e.Period, e.Time, e.CourseCode, e.StudentGroup, e.RoomID)
	if e.IsLab {
		b.WriteString(" (lab)")
	}
	return b.String()
}

// printDay prints a day's entries, or a dim placeholder when there are none
func printDay(day string, entries []scheduler.ScheduleEntry) {
	fmt.Printf("  %s%s%s\n", colorBold, day, colorReset)
	if len(entries) == 0 {
		fmt.Printf("    %s-%s\n", colorDim, colorReset)
		return
	}
	for _, e := range entries {
		fmt.Printf("    %s\n", formatEntry(e))
	}
}
