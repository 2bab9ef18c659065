// Package signature defines the declared shape of a command line: an
// ordered list of positional arguments plus named long and short options,
// each carrying a value kind, optionality, an optional default and free
// description text.
//
// A Signature is constructed once by a discovery layer (manifest files,
// OpenAPI import, or literal Go values) and validated eagerly; after New
// returns it is read-only, so the binder and the help renderer may share
// it across concurrent invocations without locking.
package signature

import (
	"fmt"
	"strings"
	"unicode"
)

// ValueKind determines how raw command-line text coerces into a typed
// value and whether a parameter accumulates across occurrences.
type ValueKind int

const (
	// Bool is presence-based and restricted to options: the option names
	// no value token, presence binds true, absence binds false.
	Bool ValueKind = iota
	// Int is a strictly parsed integer.
	Int
	// Float is a strictly parsed 64-bit float.
	Float
	// String is the identity coercion.
	String
	// ArrayOfString accumulates: options append one element per =value
	// occurrence, positionals split a single comma-separated token.
	ArrayOfString
)

// String returns the manifest spelling of the kind.
func (k ValueKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case ArrayOfString:
		return "[]string"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// ParseValueKind maps a manifest type name to its ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	switch s {
	case "bool":
		return Bool, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "string":
		return String, nil
	case "[]string":
		return ArrayOfString, nil
	default:
		return 0, fmt.Errorf("unknown value kind %q", s)
	}
}

// Zero returns the kind's zero value. Unset optional parameters that
// declare no default bind to it.
func (k ValueKind) Zero() any {
	switch k {
	case Bool:
		return false
	case Int:
		return 0
	case Float:
		return 0.0
	case ArrayOfString:
		return []string{}
	default:
		return ""
	}
}

// ParamKind says how a parameter is identified on the command line.
type ParamKind int

const (
	// Positional parameters bind by position, in declaration order.
	Positional ParamKind = iota
	// LongOption parameters bind by --name.
	LongOption
	// ShortOption parameters bind by a single-letter -x token.
	ShortOption
)

// ParameterSpec declares one argument or option of a command.
type ParameterSpec struct {
	// Name is the binding identifier: the key the bound value is stored
	// under, matching the command body's parameter name. It may differ
	// from the option spelling (a -f short option can bind as "force").
	Name string

	// Kind selects positional, long-option or short-option addressing.
	Kind ParamKind

	// Option is the long option name without the -- prefix.
	// Set only when Kind is LongOption.
	Option string

	// Letter is the short option letter. Set only when Kind is ShortOption.
	Letter rune

	// Value is the parameter's value kind.
	Value ValueKind

	// Required marks a parameter that declares no default and must be
	// supplied by the caller. Bool options are never required.
	Required bool

	// Default is the pre-typed value bound when the parameter is absent.
	// Only legal on non-required parameters and must match Value.
	Default any

	// Description is free help text, empty when undeclared.
	Description string
}

// Display returns the parameter as it is addressed on a command line:
// <name> for positionals, --name for long options, -x for short options.
func (p ParameterSpec) Display() string {
	switch p.Kind {
	case LongOption:
		return "--" + p.Option
	case ShortOption:
		return "-" + string(p.Letter)
	default:
		return "<" + p.Name + ">"
	}
}

// Signature is the complete declared shape of one command. Positional
// order is meaningful (the first positional token binds the first
// positional spec), long names, short letters and binding names are
// unique, and optional positionals trail all required ones. Immutable
// after New.
type Signature struct {
	params      []ParameterSpec
	positionals []ParameterSpec
	longs       map[string]ParameterSpec
	shorts      map[rune]ParameterSpec
}

// New validates the declared parameters and builds a Signature.
// Violations are programmer errors in the declaration and are reported
// as ordinary errors: duplicate names, a required positional after an
// optional one, a Bool positional, a required or defaulted-true Bool
// option, a default whose Go type does not match the value kind.
func New(params ...ParameterSpec) (*Signature, error) {
	s := &Signature{
		params: make([]ParameterSpec, 0, len(params)),
		longs:  make(map[string]ParameterSpec),
		shorts: make(map[rune]ParameterSpec),
	}

	names := make(map[string]bool, len(params))
	optionalSeen := false

	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter with empty binding name")
		}
		if names[p.Name] {
			return nil, fmt.Errorf("duplicate parameter name %q", p.Name)
		}
		names[p.Name] = true

		if p.Required && p.Default != nil {
			return nil, fmt.Errorf("parameter %q: required parameters cannot declare a default", p.Name)
		}
		if p.Default != nil {
			if err := checkDefault(p); err != nil {
				return nil, err
			}
		}
		if p.Value == Bool && p.Kind != Positional {
			if p.Required {
				return nil, fmt.Errorf("option %s: bool options are presence-based and cannot be required", p.Display())
			}
			if b, ok := p.Default.(bool); ok && b {
				return nil, fmt.Errorf("option %s: bool options default to false", p.Display())
			}
		}

		switch p.Kind {
		case Positional:
			if p.Value == Bool {
				return nil, fmt.Errorf("positional %q: bool parameters must be declared as options", p.Name)
			}
			if p.Option != "" || p.Letter != 0 {
				return nil, fmt.Errorf("positional %q: option spelling not allowed", p.Name)
			}
			if p.Required && optionalSeen {
				return nil, fmt.Errorf("required positional %q declared after an optional positional", p.Name)
			}
			if !p.Required {
				optionalSeen = true
			}
			s.positionals = append(s.positionals, p)

		case LongOption:
			if p.Option == "" {
				return nil, fmt.Errorf("long option %q: missing option name", p.Name)
			}
			if strings.HasPrefix(p.Option, "-") || strings.ContainsAny(p.Option, "= \t") {
				return nil, fmt.Errorf("long option %q: invalid option name %q", p.Name, p.Option)
			}
			if _, dup := s.longs[p.Option]; dup {
				return nil, fmt.Errorf("duplicate long option --%s", p.Option)
			}
			s.longs[p.Option] = p

		case ShortOption:
			if p.Letter == 0 {
				return nil, fmt.Errorf("short option %q: missing letter", p.Name)
			}
			if !unicode.IsLetter(p.Letter) {
				return nil, fmt.Errorf("short option %q: %q is not a letter", p.Name, p.Letter)
			}
			if _, dup := s.shorts[p.Letter]; dup {
				return nil, fmt.Errorf("duplicate short option -%s", string(p.Letter))
			}
			s.shorts[p.Letter] = p

		default:
			return nil, fmt.Errorf("parameter %q: unknown parameter kind %d", p.Name, p.Kind)
		}

		s.params = append(s.params, p)
	}

	return s, nil
}

// checkDefault verifies the Go type of a declared default against the
// declared value kind.
func checkDefault(p ParameterSpec) error {
	ok := false
	switch p.Value {
	case Bool:
		_, ok = p.Default.(bool)
	case Int:
		_, ok = p.Default.(int)
	case Float:
		_, ok = p.Default.(float64)
	case String:
		_, ok = p.Default.(string)
	case ArrayOfString:
		_, ok = p.Default.([]string)
	}
	if !ok {
		return fmt.Errorf("parameter %q: default %v (%T) does not match declared kind %s", p.Name, p.Default, p.Default, p.Value)
	}
	return nil
}

// Parameters returns every declared parameter in declaration order.
func (s *Signature) Parameters() []ParameterSpec {
	out := make([]ParameterSpec, len(s.params))
	copy(out, s.params)
	return out
}

// Positionals returns the positional parameters in declaration order.
func (s *Signature) Positionals() []ParameterSpec {
	out := make([]ParameterSpec, len(s.positionals))
	copy(out, s.positionals)
	return out
}

// Options returns the long and short option parameters in declaration order.
func (s *Signature) Options() []ParameterSpec {
	out := make([]ParameterSpec, 0, len(s.longs)+len(s.shorts))
	for _, p := range s.params {
		if p.Kind != Positional {
			out = append(out, p)
		}
	}
	return out
}

// Long looks up a long option by its option name.
func (s *Signature) Long(name string) (ParameterSpec, bool) {
	p, ok := s.longs[name]
	return p, ok
}

// Short looks up a short option by its letter.
func (s *Signature) Short(letter rune) (ParameterSpec, bool) {
	p, ok := s.shorts[letter]
	return p, ok
}

// HasOptions reports whether the signature declares any options.
func (s *Signature) HasOptions() bool {
	return len(s.longs)+len(s.shorts) > 0
}
