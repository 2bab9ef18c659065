package bind

import (
	"errors"
	"fmt"
)

// Binding failure taxonomy. Every *Error wraps exactly one of these
// sentinels, so callers branch with errors.Is without parsing messages.
var (
	// ErrUnknownOption reports an option token with no matching spec.
	ErrUnknownOption = errors.New("unknown option")

	// ErrMissingArgument reports a required positional left unset after
	// the full scan.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrMissingOption reports a required named option left unset after
	// the full scan.
	ErrMissingOption = errors.New("missing required option")

	// ErrMissingValue reports a value-bearing option that had neither an
	// inline value nor a following token to consume.
	ErrMissingValue = errors.New("missing value")

	// ErrUnexpectedValue reports an inline value supplied to a Bool
	// option, whose value is structural rather than textual.
	ErrUnexpectedValue = errors.New("unexpected value")

	// ErrTooManyArguments reports a positional token arriving after
	// every declared positional was already bound.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrInvalidType reports a numeric coercion failure.
	ErrInvalidType = errors.New("invalid value")
)

// Error is a single binding failure: which rule broke, for which
// parameter, and the offending input. Binding is fail-fast, so one Bind
// call yields at most one Error and no partial result.
type Error struct {
	// Err is the taxonomy sentinel this error wraps.
	Err error

	// Name is the parameter's binding name, or for unknown options the
	// option name as typed, without dashes.
	Name string

	// Subject is the display form used in messages: <name> for
	// positionals, --name or -x for options.
	Subject string

	// Value is the offending raw value, when one exists.
	Value string

	// Want is the expected value kind for coercion failures.
	Want string

	// Hint, when set, is appended to the message in parentheses.
	Hint string
}

// Error renders the user-facing message fragment. The dispatcher appends
// the command's usage line before the message reaches a stream.
func (e *Error) Error() string {
	msg := e.message()
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *Error) message() string {
	switch e.Err {
	case ErrUnknownOption:
		return fmt.Sprintf("unknown option %s", e.Subject)
	case ErrMissingArgument:
		return fmt.Sprintf("missing required argument %s", e.Subject)
	case ErrMissingOption:
		return fmt.Sprintf("missing required option %s", e.Subject)
	case ErrMissingValue:
		return fmt.Sprintf("option %s requires a value", e.Subject)
	case ErrUnexpectedValue:
		return fmt.Sprintf("option %s does not take a value", e.Subject)
	case ErrTooManyArguments:
		return fmt.Sprintf("unexpected extra argument %q", e.Value)
	case ErrInvalidType:
		return fmt.Sprintf("invalid %s value %q for %s", e.Want, e.Value, e.Subject)
	default:
		return e.Err.Error()
	}
}

// Unwrap exposes the taxonomy sentinel to errors.Is.
func (e *Error) Unwrap() error { return e.Err }
