package discover

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsign/callsign/pkg/bind"
	"github.com/callsign/callsign/pkg/command"
)

func nop(args bind.Values) (any, error) { return nil, nil }

func manifestFS() fstest.MapFS {
	return fstest.MapFS{
		"manifests/create-user.yaml": &fstest.MapFile{Data: []byte(createUserYAML)},
		"manifests/deploy.toml":      &fstest.MapFile{Data: []byte(deployTOML)},
		"manifests/README.md":        &fstest.MapFile{Data: []byte("not a manifest")},
	}
}

func TestLoader_Load(t *testing.T) {
	loader, err := NewLoader("0.4.0", map[string]command.Handler{
		"create-user": nop,
		"deploy":      nop,
	})
	require.NoError(t, err)

	reg, err := loader.Load(manifestFS(), "manifests")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	cmd, ok := reg.Lookup("create-user")
	require.True(t, ok)
	assert.Contains(t, cmd.Description, "Create a new user account.")
	assert.Len(t, cmd.Signature.Positionals(), 2)

	deploy, ok := reg.Lookup("deploy")
	require.True(t, ok)
	assert.Equal(t, "use rollout instead", deploy.Deprecated)
}

func TestLoader_RequiresGate(t *testing.T) {
	fsys := fstest.MapFS{
		"cmd.yaml": &fstest.MapFile{Data: []byte("name: future\nrequires: \">= 2.0\"\n")},
	}

	loader, err := NewLoader("0.4.0", map[string]command.Handler{"future": nop})
	require.NoError(t, err)

	_, err = loader.Load(fsys, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `command "future" requires framework >= 2.0`)

	// The same manifest loads once the framework catches up.
	loader, err = NewLoader("2.1.0", map[string]command.Handler{"future": nop})
	require.NoError(t, err)

	_, err = loader.Load(fsys, ".")
	assert.NoError(t, err)
}

func TestLoader_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		fsys     fstest.MapFS
		handlers map[string]command.Handler
		want     string
	}{
		{
			name:     "manifest without a handler",
			fsys:     fstest.MapFS{"cmd.yaml": &fstest.MapFile{Data: []byte("name: orphan\n")}},
			handlers: map[string]command.Handler{},
			want:     `no handler registered for command "orphan"`,
		},
		{
			name:     "handler without a manifest",
			fsys:     fstest.MapFS{"cmd.yaml": &fstest.MapFile{Data: []byte("name: real\n")}},
			handlers: map[string]command.Handler{"real": nop, "ghost": nop},
			want:     "handlers without a manifest: ghost",
		},
		{
			name: "duplicate command name",
			fsys: fstest.MapFS{
				"a.yaml": &fstest.MapFile{Data: []byte("name: dup\n")},
				"b.yaml": &fstest.MapFile{Data: []byte("name: dup\n")},
			},
			handlers: map[string]command.Handler{"dup": nop},
			want:     `command "dup" declared by both a.yaml and b.yaml`,
		},
		{
			name:     "invalid requires constraint",
			fsys:     fstest.MapFS{"cmd.yaml": &fstest.MapFile{Data: []byte("name: x\nrequires: \"not-a-range\"\n")}},
			handlers: map[string]command.Handler{"x": nop},
			want:     "invalid requires constraint",
		},
		{
			name: "compile error stops the load",
			fsys: fstest.MapFS{
				"cmd.yaml": &fstest.MapFile{Data: []byte("name: x\nopts:\n  - short: zz\n    name: z\n")},
			},
			handlers: map[string]command.Handler{"x": nop},
			want:     "must be a single letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := NewLoader("0.4.0", tt.handlers)
			require.NoError(t, err)

			_, err = loader.Load(tt.fsys, ".")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLoader_BadVersion(t *testing.T) {
	_, err := NewLoader("not-a-version", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid framework version")
}

func TestReadDir(t *testing.T) {
	fsys := fstest.MapFS{
		"manifests/a-broken.yaml": &fstest.MapFile{Data: []byte("name: [unclosed")},
		"manifests/b-good.yaml":   &fstest.MapFile{Data: []byte("name: good\n")},
		"manifests/c-invalid.yml": &fstest.MapFile{Data: []byte("name: invalid\nopts:\n  - short: f\n")},
		"manifests/notes.txt":     &fstest.MapFile{Data: []byte("skipped")},
	}

	files, err := ReadDir(fsys, "manifests")
	require.NoError(t, err)
	require.Len(t, files, 3, "only manifest extensions are picked up")

	assert.Equal(t, "manifests/a-broken.yaml", files[0].Path)
	assert.Error(t, files[0].Err)
	assert.Nil(t, files[0].Manifest)

	assert.Equal(t, "manifests/b-good.yaml", files[1].Path)
	assert.NoError(t, files[1].Err)
	require.NotNil(t, files[1].Manifest)
	assert.Equal(t, "good", files[1].Manifest.Name)

	// Compile failures keep the parsed manifest so reports can name it.
	assert.Equal(t, "manifests/c-invalid.yml", files[2].Path)
	assert.Error(t, files[2].Err)
	require.NotNil(t, files[2].Manifest)
	assert.Equal(t, "invalid", files[2].Manifest.Name)
}
