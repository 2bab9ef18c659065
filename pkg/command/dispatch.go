package command

import (
	"errors"
	"fmt"

	"github.com/callsign/callsign/pkg/bind"
	"github.com/callsign/callsign/pkg/help"
)

// ErrUnknownCommand reports a dispatch against a name the registry does
// not hold. There is no fuzzy matching.
var ErrUnknownCommand = errors.New("unknown command")

// OutcomeKind says how a dispatch ended.
type OutcomeKind int

const (
	// OutcomeInvoked means binding succeeded and the body ran.
	OutcomeInvoked OutcomeKind = iota
	// OutcomeHelp means help text was rendered instead of a dispatch.
	OutcomeHelp
	// OutcomeError means the command was unknown or binding failed.
	OutcomeError
)

// String returns the label invocation history records for the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeInvoked:
		return "invoked"
	case OutcomeHelp:
		return "help"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the structured result of one dispatch.
type Outcome struct {
	// Kind says how the dispatch ended.
	Kind OutcomeKind

	// Command is the resolved command name, empty when none applied.
	Command string

	// Text is the rendered help text for OutcomeHelp.
	Text string

	// Result is the body's return value for OutcomeInvoked.
	Result any

	// Err is the lookup or bind failure for OutcomeError; for
	// OutcomeInvoked it carries a body failure through to the shell.
	Err error

	// Usage is the usage line to print under bind failures.
	Usage string
}

// Dispatch resolves argv against the registry: a leading help flag
// renders help, anything else selects a command by name, binds the rest
// of argv against its signature and invokes the body.
//
// Empty argv and a lone -h (or --help) render the all-commands overview.
// A help flag followed by a command name renders that command's detailed
// help without binding, so help stays reachable even when required
// parameters are absent. A help flag after the command name is not
// special; it belongs to the command's own signature.
func (r *Registry) Dispatch(argv []string) Outcome {
	if len(argv) == 0 {
		return Outcome{Kind: OutcomeHelp, Text: r.overview()}
	}

	if isHelpFlag(argv[0]) {
		if len(argv) == 1 {
			return Outcome{Kind: OutcomeHelp, Text: r.overview()}
		}
		name := argv[1]
		cmd, ok := r.Lookup(name)
		if !ok {
			return Outcome{Kind: OutcomeError, Err: fmt.Errorf("%w %q", ErrUnknownCommand, name)}
		}
		return Outcome{
			Kind:    OutcomeHelp,
			Command: name,
			Text:    help.Render(cmd.Name, cmd.Description, cmd.Signature, help.Detailed),
		}
	}

	name := argv[0]
	cmd, ok := r.Lookup(name)
	if !ok {
		return Outcome{Kind: OutcomeError, Err: fmt.Errorf("%w %q", ErrUnknownCommand, name)}
	}

	values, err := bind.Bind(cmd.Signature, bind.Tokenize(argv[1:]))
	if err != nil {
		return Outcome{
			Kind:    OutcomeError,
			Command: name,
			Err:     err,
			Usage:   help.Usage(cmd.Name, cmd.Signature),
		}
	}

	result, err := cmd.Body(values)
	return Outcome{Kind: OutcomeInvoked, Command: name, Result: result, Err: err}
}

// overview renders one summary line per registered command, name-ordered.
func (r *Registry) overview() string {
	items := make([]help.Item, 0, r.Len())
	for _, cmd := range r.Commands() {
		items = append(items, help.Item{Name: cmd.Name, Description: cmd.Description})
	}
	return help.Overview(items)
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help"
}
