// Package cli implements the clinscore command line.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root clinscore command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinscore",
		Short: "Clinical assessment scoring engine",
		Long: `clinscore administers and scores standardized clinical instruments
(AUDIT, BPRS, EPDS, GAD-7, MDQ, MoCA and PCL-5).

Run "clinscore serve" for the HTTP API, or score answer sets directly
from the command line.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewInstrumentsCommand())
	cmd.AddCommand(NewQuestionsCommand())
	cmd.AddCommand(NewScoreCommand())

	return cmd
}
