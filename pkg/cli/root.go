// Package cli implements the lbsim command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "lbsim",
	Short: "Simulated cloud load balancer API for testing clients",
	Long: `lbsim serves an in-memory simulation of a cloud load balancer API.

Clients exercise the full resource lifecycle (BUILD, ACTIVE, PENDING-UPDATE,
PENDING-DELETE, DELETED) against it without a real service. Transition timing
is driven by behavior flags supplied in creation metadata, and requests may
carry an X-Simulated-Time header to pin the clock for deterministic tests.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lbsim version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "lbsim", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	initServeCmd()
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
