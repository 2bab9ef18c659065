// Package discover turns external command descriptions into registered
// commands. It reads manifest files (YAML or TOML) from an fs.FS, imports
// OpenAPI documents, and pairs each described command with a Go handler
// supplied by the embedding application.
package discover

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/callsign/callsign/pkg/command"
	"github.com/callsign/callsign/pkg/signature"
)

// Manifest describes one command: its name, help text, framework version
// constraint and declared parameters. The zero value of every field is
// meaningful so manifests stay short.
type Manifest struct {
	// Name is the command name as typed by the user.
	Name string `yaml:"name" toml:"name"`

	// Description is the command help text. The first line doubles as the
	// one-line summary in command listings.
	Description string `yaml:"description" toml:"description"`

	// Deprecated carries a replacement notice. Non-empty marks the
	// command deprecated; the shell prints the notice before running it.
	Deprecated string `yaml:"deprecated" toml:"deprecated"`

	// Requires is an optional semver constraint on the framework version,
	// for example ">= 0.3". Loading fails when the running framework does
	// not satisfy it.
	Requires string `yaml:"requires" toml:"requires"`

	// Args declares the positional parameters in binding order.
	Args []Parameter `yaml:"args" toml:"args"`

	// Opts declares the long and short options.
	Opts []Parameter `yaml:"opts" toml:"opts"`
}

// Parameter declares one argument or option in a manifest.
//
// Entries under args are positional and required unless they declare a
// default or set required: false. Entries under opts spell either long
// (the --name form) or short (a single letter); they are optional unless
// they set required: true. The binding name defaults to the long option
// name, so it only needs spelling out for positionals, short options and
// options that bind under a different key.
type Parameter struct {
	Name        string `yaml:"name" toml:"name"`
	Long        string `yaml:"long" toml:"long"`
	Short       string `yaml:"short" toml:"short"`
	Type        string `yaml:"type" toml:"type"`
	Required    *bool  `yaml:"required" toml:"required"`
	Default     any    `yaml:"default" toml:"default"`
	Description string `yaml:"description" toml:"description"`
}

// Parse decodes manifest bytes. The format is chosen by the file
// extension of path: .yaml and .yml decode as YAML, .toml as TOML.
func Parse(path string, data []byte) (*Manifest, error) {
	var m Manifest

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %s: unsupported extension %q", path, ext)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s: missing command name", path)
	}

	return &m, nil
}

// Signature compiles the declared parameters into a validated signature.
func (m *Manifest) Signature() (*signature.Signature, error) {
	specs := make([]signature.ParameterSpec, 0, len(m.Args)+len(m.Opts))

	for _, p := range m.Args {
		spec, err := m.argSpec(p)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, p := range m.Opts {
		spec, err := m.optSpec(p)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	sig, err := signature.New(specs...)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", m.Name, err)
	}
	return sig, nil
}

// Command compiles the manifest and pairs it with its handler.
func (m *Manifest) Command(body command.Handler) (*command.Command, error) {
	sig, err := m.Signature()
	if err != nil {
		return nil, err
	}
	return &command.Command{
		Name:        m.Name,
		Description: m.Description,
		Deprecated:  m.Deprecated,
		Signature:   sig,
		Body:        body,
	}, nil
}

// argSpec converts one args entry. Positionals are required unless they
// declare a default or say required: false.
func (m *Manifest) argSpec(p Parameter) (signature.ParameterSpec, error) {
	var zero signature.ParameterSpec

	if p.Name == "" {
		return zero, fmt.Errorf("command %q: positional argument without a name", m.Name)
	}
	if p.Long != "" || p.Short != "" {
		return zero, fmt.Errorf("command %q: argument %q must not spell an option; declare it under opts", m.Name, p.Name)
	}

	kind, err := m.valueKind(p)
	if err != nil {
		return zero, err
	}

	required := p.Default == nil
	if p.Required != nil {
		required = *p.Required
	}
	def, err := m.defaultValue(p, kind)
	if err != nil {
		return zero, err
	}

	return signature.ParameterSpec{
		Name:        p.Name,
		Kind:        signature.Positional,
		Value:       kind,
		Required:    required,
		Default:     def,
		Description: p.Description,
	}, nil
}

// optSpec converts one opts entry. Options are optional unless they say
// required: true.
func (m *Manifest) optSpec(p Parameter) (signature.ParameterSpec, error) {
	var zero signature.ParameterSpec

	if p.Long != "" && p.Short != "" {
		return zero, fmt.Errorf("command %q: option %q spells both long and short; declare two options instead", m.Name, p.Long)
	}

	kind, err := m.valueKind(p)
	if err != nil {
		return zero, err
	}
	def, err := m.defaultValue(p, kind)
	if err != nil {
		return zero, err
	}

	spec := signature.ParameterSpec{
		Name:        p.Name,
		Value:       kind,
		Default:     def,
		Description: p.Description,
	}
	if p.Required != nil {
		spec.Required = *p.Required
	}

	switch {
	case p.Long != "":
		spec.Kind = signature.LongOption
		spec.Option = p.Long
		if spec.Name == "" {
			spec.Name = p.Long
		}

	case p.Short != "":
		r, size := utf8.DecodeRuneInString(p.Short)
		if size != len(p.Short) || r == utf8.RuneError {
			return zero, fmt.Errorf("command %q: short option %q must be a single letter", m.Name, p.Short)
		}
		spec.Kind = signature.ShortOption
		spec.Letter = r
		if spec.Name == "" {
			return zero, fmt.Errorf("command %q: short option -%s needs an explicit name", m.Name, p.Short)
		}

	default:
		return zero, fmt.Errorf("command %q: option %q spells neither long nor short", m.Name, p.Name)
	}

	return spec, nil
}

// valueKind resolves a manifest type name. Empty means string.
func (m *Manifest) valueKind(p Parameter) (signature.ValueKind, error) {
	if p.Type == "" {
		return signature.String, nil
	}
	kind, err := signature.ParseValueKind(p.Type)
	if err != nil {
		return 0, fmt.Errorf("command %q: parameter %q: %w", m.Name, displayName(p), err)
	}
	return kind, nil
}

// defaultValue coerces a decoded manifest default to the Go type the
// signature layer expects. YAML decodes integers as int, TOML as int64,
// and imported JSON documents carry numbers as float64; all three must
// land as plain int for int parameters.
func (m *Manifest) defaultValue(p Parameter, kind signature.ValueKind) (any, error) {
	if p.Default == nil {
		return nil, nil
	}

	switch kind {
	case signature.Bool:
		if b, ok := p.Default.(bool); ok {
			return b, nil
		}

	case signature.Int:
		switch v := p.Default.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v == math.Trunc(v) {
				return int(v), nil
			}
		}

	case signature.Float:
		switch v := p.Default.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}

	case signature.String:
		if s, ok := p.Default.(string); ok {
			return s, nil
		}

	case signature.ArrayOfString:
		switch v := p.Default.(type) {
		case []string:
			return append([]string{}, v...), nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("command %q: parameter %q: default element %v (%T) is not a string", m.Name, displayName(p), item, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	}

	return nil, fmt.Errorf("command %q: parameter %q: default %v (%T) does not match type %s", m.Name, displayName(p), p.Default, p.Default, kind)
}

// displayName picks the most recognizable spelling for error messages.
func displayName(p Parameter) string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Long != "":
		return p.Long
	case p.Short != "":
		return p.Short
	default:
		return "(unnamed)"
	}
}
