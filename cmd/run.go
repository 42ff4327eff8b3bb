package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/gnahuy123/liftSim/pkg/chart"
	"github.com/gnahuy123/liftSim/pkg/config"
	"github.com/gnahuy123/liftSim/pkg/logger"
	"github.com/gnahuy123/liftSim/pkg/simulation"
	"github.com/spf13/cobra"
)

var (
	scenarioFile     string
	showTimeline     bool
	timelineLimit    int
	showEventSummary bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario file and chart the result",
	Long: `Reads a scenario containing passenger streams, simulates one building (one
policy) or two buildings side by side (two policies) and prints a load chart
per building, the final statistics and any warnings.`,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().StringVarP(&scenarioFile, "scenario", "f", "scenario.yaml", "Path to scenario file")
	runCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	runCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	runCmd.Flags().BoolVarP(&showEventSummary, "summary", "s", true, "Show event summary")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	scenario, err := config.LoadScenario(scenarioFile)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded scenario %q from %s\n", scenario.Name, scenarioFile)
	fmt.Fprintf(out, "  - Policies: %s\n", strings.Join(scenario.Policies, " vs "))
	fmt.Fprintf(out, "  - Floors: %d-%d\n", scenario.MinFloor, scenario.MaxFloor)
	fmt.Fprintf(out, "  - Max Ticks: %d (%s per tick, %s simulated)\n",
		scenario.MaxTicks,
		chart.FormatDuration(scenario.TickDuration),
		chart.FormatDuration(time.Duration(scenario.MaxTicks)*scenario.TickDuration))
	fmt.Fprintf(out, "  - Streams: %d\n\n", len(scenario.Streams))

	// Create and run simulator
	sim := simulation.NewSimulator(scenario)
	for _, name := range sim.Unregistered() {
		logger.GetLogger().Warn().Msgf("Unknown policy %q, running the default policy instead", name)
	}
	if err := sim.Run(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	chartGen := chart.NewGenerator()

	timePoints := sim.GetTimePoints()
	events := sim.GetEvents()
	results := sim.GetResults()

	for i, result := range results {
		fmt.Fprintln(out, chartGen.GenerateLoadChart(timePoints, events, i+1, result.Policy))
	}

	fmt.Fprintln(out, chartGen.GenerateResults(results))

	if showEventSummary {
		fmt.Fprintln(out, chartGen.GenerateEventSummary(events))
	}

	fmt.Fprintln(out, chartGen.GenerateWarnings(sim.GetWarnings()))

	if showTimeline {
		fmt.Fprintln(out, chartGen.GenerateDetailedTimeline(events, timelineLimit))
	}

	return nil
}
