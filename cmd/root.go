package cmd

import (
	"github.com/gnahuy123/liftSim/pkg/logger"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "liftsim",
	Short: "Two-lift elevator dispatch simulator",
	Long: `A simulator for a building served by two lifts.

Passenger requests are dispatched to the closer lift and each lift picks its
direction with a pluggable policy (SCAN, SSTF or nearest neighbour). Run a
scenario file offline to compare policies, or serve interactive sessions over
HTTP and WebSocket.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetLevel(logger.ParseLevel(logLevel))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error, disabled)")
}
