package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/gnahuy123/liftSim/pkg/simulation"
)

const (
	chartWidth  = 80
	chartHeight = 20
)

// Generator generates ASCII charts
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

// GenerateLoadChart draws how many passengers were onboard and waiting in
// one building over the run. building is the 1-based index used in events.
func (g *Generator) GenerateLoadChart(timePoints []simulation.TimePoint, events []simulation.Event, building int, title string) string {
	if len(timePoints) == 0 {
		return "No data to display"
	}

	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Passenger Load Over Time: %s\n", title))
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	type loadPoint struct {
		onboard   int
		waiting   int
		longWaits int
	}

	points := make([]loadPoint, len(timePoints))
	for i, tp := range timePoints {
		if building-1 >= len(tp.Waiting) {
			continue
		}
		points[i] = loadPoint{
			onboard: tp.Onboard[building-1],
			waiting: tp.Waiting[building-1],
		}
	}

	// Long waits are flagged once, so they mark the tick the limit was crossed
	first := timePoints[0].Tick
	for _, event := range events {
		if event.Type != simulation.EventTypeLongWait || event.Building != building {
			continue
		}
		if i := event.Tick - first; i >= 0 && i < len(points) {
			points[i].longWaits++
		}
	}

	maxOnboard, maxWaiting := 0, 0
	for _, p := range points {
		maxOnboard = max(maxOnboard, p.onboard)
		maxWaiting = max(maxWaiting, p.waiting)
	}

	// Tall charts are scaled down to the generator height
	scale := 1
	if rows := maxOnboard + maxWaiting; rows > g.height {
		scale = (rows + g.height - 1) / g.height
	}

	columns := min(len(points), g.width-6)
	column := func(x int) loadPoint {
		return points[x*len(points)/columns]
	}

	waitingRows := (maxWaiting + scale - 1) / scale
	onboardRows := (maxOnboard + scale - 1) / scale

	// Waiting passengers are drawn above the separator
	for row := waitingRows; row >= 1; row-- {
		sb.WriteString(fmt.Sprintf("%3d |", row*scale))
		for x := 0; x < columns; x++ {
			p := column(x)
			switch {
			case row == 1 && p.longWaits > 0:
				sb.WriteString("!")
			case p.waiting > (row-1)*scale:
				sb.WriteString("*")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	if waitingRows > 0 {
		sb.WriteString("    ")
		sb.WriteString(strings.Repeat("-", g.width-4))
		sb.WriteString("\n")
	}

	for row := onboardRows; row >= 1; row-- {
		sb.WriteString(fmt.Sprintf("%3d |", row*scale))
		for x := 0; x < columns; x++ {
			if column(x).onboard > (row-1)*scale {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	// X-axis
	sb.WriteString("    +")
	sb.WriteString(strings.Repeat("-", g.width-6))
	sb.WriteString("\n")
	sb.WriteString("    ")
	sb.WriteString(tickLabels(first, timePoints[len(timePoints)-1].Tick, columns))
	sb.WriteString("\n")

	// Legend
	sb.WriteString("\n")
	sb.WriteString("Legend:\n")
	if scale > 1 {
		sb.WriteString(fmt.Sprintf("  Each row is %d passengers\n", scale))
	}
	sb.WriteString("  Onboard rows (below the line):\n")
	sb.WriteString("    █ - Passenger riding a lift\n")
	if waitingRows > 0 {
		sb.WriteString("  Waiting rows (above the line):\n")
		sb.WriteString("    * - Passenger waiting for pickup\n")
		sb.WriteString("    ! - A passenger crossed the long wait limit\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// tickLabels places tick markers under the x-axis
func tickLabels(firstTick, lastTick, columns int) string {
	labelLine := []rune(strings.Repeat(" ", columns))

	span := lastTick - firstTick
	step := labelStep(span)
	free := 0
	for tick := firstTick - firstTick%step; tick <= lastTick; tick += step {
		if tick < firstTick {
			continue
		}

		position := 0
		if span > 0 {
			position = (tick - firstTick) * (columns - 1) / span
		}

		if position < free {
			continue
		}

		marker := fmt.Sprintf("%dt", tick)
		if position+len(marker) > columns {
			break
		}
		for i, ch := range marker {
			labelLine[position+i] = ch
		}
		free = position + len(marker) + 1
	}

	return strings.TrimRight(string(labelLine), " ")
}

// labelStep picks a round tick interval giving roughly eight markers
func labelStep(span int) int {
	for _, step := range []int{1, 2, 5, 10, 20, 25, 50, 100, 200, 250, 500, 1000} {
		if span/step <= 8 {
			return step
		}
	}
	return span / 8
}

// GenerateResults generates a table of the final statistics of each building
func (g *Generator) GenerateResults(results []simulation.Result) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Results\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%-10s %10s %10s %10s %10s %10s\n",
		"Policy", "Completed", "Avg Wait", "Avg Ride", "Avg Total", "Remaining"))
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%-10s %10d %10.2f %10.2f %10.2f %10d\n",
			r.Policy,
			r.Stats.Completed,
			r.Stats.AvgWait,
			r.Stats.AvgRide,
			r.Stats.AvgTotal,
			r.Remaining))
	}

	if len(results) == 2 && results[0].Stats.Completed > 0 && results[1].Stats.Completed > 0 {
		a, b := results[0], results[1]
		switch {
		case a.Stats.AvgTotal < b.Stats.AvgTotal:
			sb.WriteString(fmt.Sprintf("\n%s beats %s by %.2f ticks per trip\n", a.Policy, b.Policy, b.Stats.AvgTotal-a.Stats.AvgTotal))
		case b.Stats.AvgTotal < a.Stats.AvgTotal:
			sb.WriteString(fmt.Sprintf("\n%s beats %s by %.2f ticks per trip\n", b.Policy, a.Policy, a.Stats.AvgTotal-b.Stats.AvgTotal))
		default:
			sb.WriteString("\nBoth policies tie on average trip time\n")
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateEventSummary generates a summary of events
func (g *Generator) GenerateEventSummary(events []simulation.Event) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	// Group events by type
	eventsByType := make(map[simulation.EventType]int)
	for _, event := range events {
		eventsByType[event.Type]++
	}

	sb.WriteString(fmt.Sprintf("Total Events: %d\n", len(events)))
	sb.WriteString(fmt.Sprintf("  - Pickups: %d\n", eventsByType[simulation.EventTypePickup]))
	sb.WriteString(fmt.Sprintf("  - Dropoffs: %d\n", eventsByType[simulation.EventTypeDropoff]))
	sb.WriteString(fmt.Sprintf("  - Rejected Requests: %d\n", eventsByType[simulation.EventTypeRequestRejected]))
	sb.WriteString(fmt.Sprintf("  - Long Waits: %d\n", eventsByType[simulation.EventTypeLongWait]))
	sb.WriteString(fmt.Sprintf("  - Tick Limit Reached: %d\n", eventsByType[simulation.EventTypeTickLimit]))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateWarnings generates a list of warnings
func (g *Generator) GenerateWarnings(warnings []simulation.Event) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Warnings\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	if len(warnings) == 0 {
		sb.WriteString("No warnings!\n")
		return sb.String()
	}

	for _, warning := range warnings {
		timestamp := warning.Time.Format("2006-01-02 15:04:05")
		sb.WriteString(fmt.Sprintf("[%s] %s\n", timestamp, warning.Message))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total Warnings: %d\n", len(warnings)))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateDetailedTimeline generates a detailed timeline of events
func (g *Generator) GenerateDetailedTimeline(events []simulation.Event, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Timeline")
	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(events)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		event := events[i]
		timestamp := event.Time.Format("15:04:05")

		typeIcon := " "
		switch event.Type {
		case simulation.EventTypePickup:
			typeIcon = "+"
		case simulation.EventTypeDropoff:
			typeIcon = "-"
		case simulation.EventTypeRequestRejected:
			typeIcon = "R"
		case simulation.EventTypeLongWait:
			typeIcon = "W"
		case simulation.EventTypeTickLimit:
			typeIcon = "!"
		}

		sb.WriteString(fmt.Sprintf("[%s] %s [t%d] %s\n",
			timestamp,
			typeIcon,
			event.Tick,
			event.Message))
	}

	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(events)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
