// Command tokenomics-planner builds token allocation plans and simulates their
// unlock schedules, either once from a configuration file or as an HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenomics-planner",
		Short: "Plan token allocations and simulate their unlock schedule",
		Long: `Plan how a token supply is split across allocation categories and
simulate the circulating supply month by month as each category unlocks.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		SimulateCmd(),
		ServeCmd(),
		VersionCmd(),
	)
	return cmd
}

// VersionCmd prints the build version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
