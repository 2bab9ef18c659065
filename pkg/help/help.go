// Package help renders usage and help text from a command's declared
// signature. Because the renderer reads the same model the binder binds
// against, documentation cannot drift from behavior.
//
// Rendering is a pure read: no signature is ever mutated and rendering
// the same command twice yields identical text.
package help

import (
	"fmt"
	"strings"

	"github.com/callsign/callsign/pkg/signature"
)

// Level selects the detail of rendered help.
type Level int

const (
	// Summary is one line: the command name and the first line of its
	// description.
	Summary Level = iota
	// Detailed is the full usage line, description, and enumerated
	// arguments and options.
	Detailed
)

// Item names one command in the all-commands overview.
type Item struct {
	Name        string
	Description string
}

// Usage renders the one-line invocation synopsis: positionals in
// declared order with optional ones bracketed, and a literal [<options>]
// before the first positional whenever any options are declared.
func Usage(name string, sig *signature.Signature) string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(name)
	if sig.HasOptions() {
		b.WriteString(" [<options>]")
	}
	for _, p := range sig.Positionals() {
		if p.Required {
			fmt.Fprintf(&b, " <%s>", p.Name)
		} else {
			fmt.Fprintf(&b, " [<%s>]", p.Name)
		}
	}
	return b.String()
}

// Render formats help for one command at the requested level. The
// returned text ends with a newline.
func Render(name, description string, sig *signature.Signature, level Level) string {
	if level == Summary {
		return summaryLine(name, description) + "\n"
	}
	return detailed(name, description, sig)
}

// Overview renders one Summary line per command with the name column
// aligned across the whole list.
func Overview(items []Item) string {
	width := 0
	for _, it := range items {
		if len(it.Name) > width {
			width = len(it.Name)
		}
	}

	var b strings.Builder
	for _, it := range items {
		first := firstLine(it.Description)
		if first == "" {
			fmt.Fprintf(&b, "%s\n", it.Name)
		} else {
			fmt.Fprintf(&b, "%-*s  %s\n", width, it.Name, first)
		}
	}
	return b.String()
}

func detailed(name, description string, sig *signature.Signature) string {
	var b strings.Builder
	b.WriteString(Usage(name, sig))
	b.WriteString("\n")

	if desc := strings.TrimRight(description, "\n"); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	b.WriteString("\nArguments:\n")
	writeRows(&b, argumentRows(sig), "no arguments")

	b.WriteString("\nOptions:\n")
	writeRows(&b, optionRows(sig), "no options")

	return b.String()
}

func summaryLine(name, description string) string {
	first := firstLine(description)
	if first == "" {
		return name
	}
	return name + "  " + first
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

type row struct {
	label string
	desc  string
}

func argumentRows(sig *signature.Signature) []row {
	var rows []row
	for _, p := range sig.Positionals() {
		rows = append(rows, row{label: p.Name, desc: p.Description})
	}
	return rows
}

func optionRows(sig *signature.Signature) []row {
	var rows []row
	for _, p := range sig.Options() {
		rows = append(rows, row{label: optionLabel(p), desc: p.Description})
	}
	return rows
}

// optionLabel renders --name <param> and -x <param>, dropping the value
// placeholder for Bool options, which take none.
func optionLabel(p signature.ParameterSpec) string {
	label := p.Display()
	if p.Value != signature.Bool {
		label += " <" + p.Name + ">"
	}
	return label
}

// writeRows aligns each description after the longest label in the
// list; the column width is computed per render, never globally. An
// empty list gets its placeholder line instead of an empty section.
func writeRows(b *strings.Builder, rows []row, placeholder string) {
	if len(rows) == 0 {
		fmt.Fprintf(b, "  %s\n", placeholder)
		return
	}

	width := 0
	for _, r := range rows {
		if len(r.label) > width {
			width = len(r.label)
		}
	}
	for _, r := range rows {
		if r.desc == "" {
			fmt.Fprintf(b, "  %s\n", r.label)
		} else {
			fmt.Fprintf(b, "  %-*s  %s\n", width, r.label, r.desc)
		}
	}
}
