package main

import (
	"os"

	"github.com/Reimouto/superchain-ops/cmd/superchain-audit/commands"
	"github.com/spf13/cobra"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "superchain-audit",
		Short: "Audit the side effects of a simulated transaction",
		Long: `Audit the side effects of a simulated transaction before signing it.
Given a simulation trace, the tool extracts net asset movements and net storage
changes, decodes them against well-known slots and per-contract storage
layouts, and renders a reviewable report.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ServeCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
