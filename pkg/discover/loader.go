package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/callsign/callsign/pkg/command"
)

// Loader pairs manifest files with the handlers an application registers
// for them. Every manifest must name a registered handler and every
// registered handler must be named by exactly one manifest; the mismatch
// in either direction is a startup error, not a warning.
type Loader struct {
	version  *semver.Version
	handlers map[string]command.Handler
}

// NewLoader creates a loader for the given framework version. The
// handlers map is keyed by command name.
func NewLoader(version string, handlers map[string]command.Handler) (*Loader, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid framework version %q: %w", version, err)
	}
	return &Loader{version: v, handlers: handlers}, nil
}

// Load walks root inside fsys, parses every .yaml, .yml and .toml file as
// a command manifest, checks each manifest's requires constraint against
// the framework version, pairs it with its handler and builds a registry.
func (l *Loader) Load(fsys fs.FS, root string) (*command.Registry, error) {
	files, err := ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}

	cmds := make([]*command.Command, 0, len(files))
	claimed := make(map[string]string, len(files))

	for _, f := range files {
		if f.Err != nil {
			return nil, f.Err
		}
		m := f.Manifest

		if prev, dup := claimed[m.Name]; dup {
			return nil, fmt.Errorf("command %q declared by both %s and %s", m.Name, prev, f.Path)
		}
		claimed[m.Name] = f.Path

		if err := l.checkRequires(m); err != nil {
			return nil, err
		}

		body, ok := l.handlers[m.Name]
		if !ok {
			return nil, fmt.Errorf("no handler registered for command %q (%s)", m.Name, f.Path)
		}

		cmd, err := m.Command(body)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	if len(claimed) < len(l.handlers) {
		orphans := make([]string, 0, len(l.handlers))
		for name := range l.handlers {
			if _, ok := claimed[name]; !ok {
				orphans = append(orphans, name)
			}
		}
		sort.Strings(orphans)
		return nil, fmt.Errorf("handlers without a manifest: %s", strings.Join(orphans, ", "))
	}

	return command.NewRegistry(cmds...)
}

// checkRequires enforces a manifest's framework version constraint.
func (l *Loader) checkRequires(m *Manifest) error {
	if m.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("command %q: invalid requires constraint %q: %w", m.Name, m.Requires, err)
	}
	if !c.Check(l.version) {
		return fmt.Errorf("command %q requires framework %s, this is %s", m.Name, m.Requires, l.version)
	}
	return nil
}

// File is one manifest file as found by ReadDir. Err records the parse
// or compile failure, if any. Manifest is nil when the file could not be
// read or parsed; a manifest that parsed but failed to compile keeps its
// parsed form so reports can still name the command.
type File struct {
	Path     string
	Manifest *Manifest
	Err      error
}

// ReadDir walks root inside fsys and parses every manifest file found,
// in lexical path order. Unlike Load it does not stop at the first bad
// file: each File carries its own error so callers can report all
// problems at once.
func ReadDir(fsys fs.FS, root string) ([]File, error) {
	var files []File

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isManifestPath(path) {
			return nil
		}

		f := File{Path: path}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			f.Err = fmt.Errorf("failed to read manifest %s: %w", path, err)
			files = append(files, f)
			return nil
		}

		m, err := Parse(path, data)
		if err != nil {
			f.Err = err
			files = append(files, f)
			return nil
		}

		// Compile eagerly so declaration mistakes surface here, with the
		// file path, instead of later at dispatch.
		if _, err := m.Signature(); err != nil {
			f.Err = fmt.Errorf("%s: %w", path, err)
		}
		f.Manifest = m
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk manifest directory %s: %w", root, err)
	}

	return files, nil
}

// isManifestPath reports whether a file name looks like a manifest.
func isManifestPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}
