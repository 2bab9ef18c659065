package command

import (
	"fmt"

	"github.com/tidwall/btree"
)

// Registry is the flat name-to-command map, built once and read-only
// thereafter. Iteration order is lexical by name.
type Registry struct {
	commands *btree.Map[string, *Command]
}

// NewRegistry builds a registry from discovered commands. Empty names,
// nil signatures, nil bodies and duplicate names are construction
// errors.
func NewRegistry(cmds ...*Command) (*Registry, error) {
	m := btree.NewMap[string, *Command](0)
	for _, cmd := range cmds {
		if cmd == nil || cmd.Name == "" {
			return nil, fmt.Errorf("command with empty name")
		}
		if cmd.Signature == nil {
			return nil, fmt.Errorf("command %q: nil signature", cmd.Name)
		}
		if cmd.Body == nil {
			return nil, fmt.Errorf("command %q: nil body", cmd.Name)
		}
		if _, dup := m.Get(cmd.Name); dup {
			return nil, fmt.Errorf("duplicate command %q", cmd.Name)
		}
		m.Set(cmd.Name, cmd)
	}
	return &Registry{commands: m}, nil
}

// Lookup returns the named command.
func (r *Registry) Lookup(name string) (*Command, bool) {
	return r.commands.Get(name)
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return r.commands.Len()
}

// Commands returns every registered command in name order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, r.commands.Len())
	r.commands.Scan(func(name string, cmd *Command) bool {
		out = append(out, cmd)
		return true
	})
	return out
}
