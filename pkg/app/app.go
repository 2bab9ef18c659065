// Package app wires a command registry, configuration and invocation
// history into a runnable command-line shell. The dispatch layer stays
// silent and structured; this package owns the streams, the exit code
// and every line the user actually sees.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/callsign/callsign/pkg/command"
	"github.com/callsign/callsign/pkg/config"
	"github.com/callsign/callsign/pkg/history"
)

// Version is the framework version. Manifest requires constraints are
// checked against it.
const Version = "0.4.0"

// App is a runnable command-line application.
type App struct {
	// Name is the binary name, used as the configuration app name.
	Name string

	// Registry holds the registered commands. Required.
	Registry *command.Registry

	// Config carries the loaded configuration. Nil behaves like Default.
	Config *config.Config

	// History records invocations when non-nil. The embedder decides
	// whether to open a store, honoring config.History.Enabled.
	History *history.Store

	// Stdout and Stderr default to the process streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// Run dispatches argv and reports the outcome: help text goes to stdout,
// errors go to stderr as "Error: <message>" with a usage line after
// binding failures. The exit code is 0 for help and successful
// invocations, 1 for every failure; a command body may override the
// success code by returning an int result.
func (a *App) Run(argv []string) int {
	stdout, stderr := a.streams()
	a.applyColor()
	a.warnDeprecated(stderr, argv)

	started := time.Now()
	outcome := a.Registry.Dispatch(argv)
	exit := a.report(stdout, stderr, outcome)
	a.record(argv, outcome, exit, started)
	return exit
}

// streams resolves the output writers.
func (a *App) streams() (io.Writer, io.Writer) {
	stdout, stderr := a.Stdout, a.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}

// applyColor maps the configured color mode onto the color package.
// "auto" keeps terminal detection.
func (a *App) applyColor() {
	if a.Config == nil {
		return
	}
	switch a.Config.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

// warnDeprecated prints the replacement notice before a deprecated
// command runs.
func (a *App) warnDeprecated(stderr io.Writer, argv []string) {
	if len(argv) == 0 {
		return
	}
	cmd, ok := a.Registry.Lookup(argv[0])
	if !ok || cmd.Deprecated == "" {
		return
	}
	color.New(color.FgYellow).Fprintf(stderr, "Warning: command '%s' is deprecated: %s\n", cmd.Name, cmd.Deprecated)
}

// report writes the outcome to the streams and picks the exit code.
func (a *App) report(stdout, stderr io.Writer, outcome command.Outcome) int {
	switch outcome.Kind {
	case command.OutcomeHelp:
		fmt.Fprint(stdout, outcome.Text)
		return 0

	case command.OutcomeInvoked:
		if outcome.Err != nil {
			color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", outcome.Err)
			return 1
		}
		if code, ok := outcome.Result.(int); ok {
			return code
		}
		return 0

	default:
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", outcome.Err)
		if outcome.Usage != "" {
			fmt.Fprintln(stderr, outcome.Usage)
		}
		return 1
	}
}

// record appends the invocation to history. Recording failures never
// affect the invocation itself.
func (a *App) record(argv []string, outcome command.Outcome, exit int, started time.Time) {
	if a.History == nil {
		return
	}
	e := history.Entry{
		Command:   outcome.Command,
		Argv:      argv,
		Outcome:   outcome.Kind.String(),
		ExitCode:  exit,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if outcome.Err != nil {
		e.Error = outcome.Err.Error()
	}
	_ = a.History.Record(context.Background(), e)
}
