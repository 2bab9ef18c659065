// Package bind turns raw process arguments into the typed values a
// command's signature declares.
//
// Binding runs in two phases. Tokenize classifies each argument
// syntactically: positional, --long option or single-letter -x short
// option, with inline =values split off. Bind then resolves the token
// stream against a signature.Signature, coercing text into typed values,
// applying defaults and filling every declared parameter.
//
// # Option forms
//
// Int, Float and String options accept an inline value (--name=v, -x=v)
// or consume the next token as their value (--name v). Bool options take
// no value at all; presence binds true. ArrayOfString options require
// the inline form on every occurrence, so a repeated flag can never be
// confused with a following positional; each occurrence appends one
// element. ArrayOfString positionals instead split one comma-separated
// token into its elements.
//
// # Errors
//
// Binding is fail-fast: the first violation aborts the scan and comes
// back as a *Error wrapping one of the package sentinels. There is no
// error accumulation and no partial result. When the scan completes with
// a required parameter still unset, the first such parameter in
// declaration order is reported.
package bind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/callsign/callsign/pkg/signature"
)

// Bind walks tokens against sig and produces one typed value per
// declared parameter. The caller owns the returned map; signatures are
// never mutated, so one signature serves concurrent binds.
func Bind(sig *signature.Signature, tokens []Token) (Values, error) {
	positionals := sig.Positionals()
	params := sig.Parameters()

	values := make(Values, len(params))
	seen := make(map[string]bool, len(params))
	cursor := 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.Kind == TokenPositional {
			if cursor >= len(positionals) {
				return nil, &Error{Err: ErrTooManyArguments, Value: tok.Raw}
			}
			spec := positionals[cursor]
			if spec.Value == signature.ArrayOfString {
				values[spec.Name] = strings.Split(tok.Raw, ",")
			} else {
				v, err := coerce(spec, spec.Display(), tok.Raw)
				if err != nil {
					return nil, err
				}
				values[spec.Name] = v
			}
			seen[spec.Name] = true
			cursor++
			continue
		}

		spec, ok := lookupOption(sig, tok)
		if !ok {
			return nil, &Error{Err: ErrUnknownOption, Name: optionName(tok), Subject: tok.Display()}
		}

		switch spec.Value {
		case signature.Bool:
			if tok.HasValue {
				return nil, &Error{Err: ErrUnexpectedValue, Name: spec.Name, Subject: tok.Display(), Value: tok.Value}
			}
			values[spec.Name] = true

		case signature.ArrayOfString:
			if !tok.HasValue {
				return nil, &Error{
					Err:     ErrMissingValue,
					Name:    spec.Name,
					Subject: tok.Display(),
					Hint:    fmt.Sprintf("use %s=<value>", tok.Display()),
				}
			}
			// The first explicit occurrence starts a fresh list;
			// repeats accumulate in order.
			cur, _ := values[spec.Name].([]string)
			values[spec.Name] = append(cur, tok.Value)

		default:
			raw := tok.Value
			if !tok.HasValue {
				if i+1 >= len(tokens) {
					return nil, &Error{Err: ErrMissingValue, Name: spec.Name, Subject: tok.Display()}
				}
				i++
				raw = tokens[i].Raw
			}
			v, err := coerce(spec, tok.Display(), raw)
			if err != nil {
				return nil, err
			}
			values[spec.Name] = v
		}
		seen[spec.Name] = true
	}

	// Required check and default fill, in declaration order. Only the
	// first missing parameter is reported.
	for _, spec := range params {
		if seen[spec.Name] {
			continue
		}
		if spec.Required {
			kind := ErrMissingOption
			if spec.Kind == signature.Positional {
				kind = ErrMissingArgument
			}
			return nil, &Error{Err: kind, Name: spec.Name, Subject: spec.Display()}
		}
		values[spec.Name] = defaultValue(spec)
	}

	return values, nil
}

func lookupOption(sig *signature.Signature, tok Token) (signature.ParameterSpec, bool) {
	if tok.Kind == TokenLong {
		return sig.Long(tok.Name)
	}
	return sig.Short(tok.Letter)
}

func optionName(tok Token) string {
	if tok.Kind == TokenLong {
		return tok.Name
	}
	return string(tok.Letter)
}

// coerce applies the kind's coercion rule to one raw value. Bool never
// reaches here; its value is structural.
func coerce(spec signature.ParameterSpec, subject, raw string) (any, error) {
	switch spec.Value {
	case signature.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &Error{Err: ErrInvalidType, Name: spec.Name, Subject: subject, Value: raw, Want: "int"}
		}
		return n, nil
	case signature.Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &Error{Err: ErrInvalidType, Name: spec.Name, Subject: subject, Value: raw, Want: "float"}
		}
		return f, nil
	default:
		return raw, nil
	}
}

// defaultValue resolves the bound value for a parameter the input never
// set: its declared default, or the kind's zero value when none was
// declared. Array defaults are copied so a later append cannot reach the
// signature's slice.
func defaultValue(spec signature.ParameterSpec) any {
	if spec.Default == nil {
		return spec.Value.Zero()
	}
	if def, ok := spec.Default.([]string); ok {
		return append([]string{}, def...)
	}
	return spec.Default
}
