// Package main implements the callsign developer tool.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	version = "0.4.0"
	// BuildDate is set at build time
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "callsign",
		Short: "callsign - Tooling for manifest-driven CLIs",
		Long: `callsign is the companion tool for applications built on the
callsign framework.

It vets command manifest directories, generates Markdown reference
documentation, and inspects invocation history databases.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
				pterm.DisableColor()
			}
		},
	}

	// Add global flags
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	cmd.AddCommand(newVetCmd())
	cmd.AddCommand(newDocsCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
