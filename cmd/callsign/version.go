package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callsign/callsign/pkg/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("callsign %s (built %s)\n", version, buildDate)
			fmt.Printf("framework %s\n", app.Version)
		},
	}
}
