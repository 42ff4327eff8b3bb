package cmd

import (
	"fmt"

	"github.com/gnahuy123/liftSim/pkg/policy"
	"github.com/spf13/cobra"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the registered direction policies",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, p := range policy.All() {
			marker := " "
			if p.Name == policy.DefaultName {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-8s %s\n", marker, p.Name, p.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}
