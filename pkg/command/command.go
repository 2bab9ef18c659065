// Package command holds the resolved collection of named commands and
// dispatches single invocations against it.
//
// A Registry is built once at startup from the discovery layer's output
// and is read-only afterwards; a single registry safely serves
// concurrent invocations as long as each carries its own argv. Dispatch
// itself is synchronous: one argv array in, one Outcome out, the command
// body invoked at most once. The core never writes to process streams;
// the shell in pkg/app decides stream placement and exit codes from the
// Outcome fields.
package command

import (
	"github.com/callsign/callsign/pkg/bind"
	"github.com/callsign/callsign/pkg/signature"
)

// Handler is a command body. It receives the bound values, one per
// declared parameter, and returns an arbitrary result for the process
// shell to interpret; an int result passes through as the exit code.
type Handler func(args bind.Values) (any, error)

// Command pairs a name with its declared signature and body. Commands
// are created during discovery, held for the process lifetime, and
// never mutated.
type Command struct {
	// Name selects the command on the command line.
	Name string

	// Description is free help text; its first line is the summary.
	Description string

	// Deprecated, when non-empty, is a notice the shell prints to the
	// error stream before the body runs.
	Deprecated string

	// Signature declares the command's arguments and options.
	Signature *signature.Signature

	// Body runs after a successful bind.
	Body Handler
}
