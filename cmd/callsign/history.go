package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/callsign/callsign/internal/render"
	"github.com/callsign/callsign/pkg/history"
)

// formatFlag is a pflag.Value accepting only the output formats the
// render package supports, so a typo fails at flag parse time.
type formatFlag string

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Type() string { return "format" }

func (f *formatFlag) Set(s string) error {
	switch s {
	case "table", "json":
		*f = formatFlag(s)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

func newHistoryCmd() *cobra.Command {
	var (
		dbPath  string
		appName string
		limit   int
		clear   bool
		output  = formatFlag("table")
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect an application's invocation history",
		Long: `History lists recent invocations recorded by an application built on
the framework.

The database is located either explicitly with --db or by application
name with --app, which resolves the default state path for that app.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case dbPath != "" && appName != "":
				return fmt.Errorf("--db and --app are mutually exclusive")
			case dbPath == "" && appName == "":
				return fmt.Errorf("one of --db or --app is required")
			case dbPath == "":
				dbPath = history.DefaultPath(appName)
			}

			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("no history database at %s", dbPath)
			}

			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()

			if clear {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Printf("✓ Cleared history in %s\n", dbPath)
				return nil
			}

			entries, err := store.List(ctx, limit)
			if err != nil {
				return err
			}

			if output == "json" {
				return render.JSON(os.Stdout, entries)
			}
			if len(entries) == 0 {
				fmt.Println("No invocations recorded.")
				return nil
			}
			return render.Table(os.Stdout, []string{"Started", "Command", "Outcome", "Exit", "Duration"}, historyRows(entries))
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the history database")
	cmd.Flags().StringVar(&appName, "app", "", "Application name, resolved to its default state path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to list, 0 for all")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete every recorded invocation")
	cmd.Flags().VarP(&output, "output", "o", "Output format (table or json)")

	return cmd
}

func historyRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.Command
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{
			e.StartedAt.Local().Format(time.DateTime),
			name,
			e.Outcome,
			strconv.Itoa(e.ExitCode),
			e.Duration.Round(time.Millisecond).String(),
		})
	}
	return rows
}
