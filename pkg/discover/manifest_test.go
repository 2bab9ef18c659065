package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsign/callsign/pkg/signature"
)

const createUserYAML = `
name: create-user
description: |
  Create a new user account.

  Provisions the account and sends the invitation email.
requires: ">= 0.3"
args:
  - name: email
    type: string
    description: Primary email address.
  - name: password
    type: string
opts:
  - long: user
    type: string
    required: true
    description: Operator performing the change.
  - long: team
    type: string
    default: dev
  - short: f
    name: force
    type: bool
    description: Skip the confirmation prompt.
`

const deployTOML = `
name = "deploy"
description = "Deploy a release."
deprecated = "use rollout instead"

[[args]]
name = "version"
type = "string"

[[opts]]
long = "replicas"
type = "int"
default = 2

[[opts]]
long = "regions"
type = "[]string"
default = ["us-east", "eu-west"]
`

func TestParse_YAML(t *testing.T) {
	m, err := Parse("create-user.yaml", []byte(createUserYAML))
	require.NoError(t, err)

	assert.Equal(t, "create-user", m.Name)
	assert.Equal(t, ">= 0.3", m.Requires)
	assert.Contains(t, m.Description, "Create a new user account.")
	require.Len(t, m.Args, 2)
	require.Len(t, m.Opts, 3)

	assert.Equal(t, "email", m.Args[0].Name)
	assert.Equal(t, "user", m.Opts[0].Long)
	require.NotNil(t, m.Opts[0].Required)
	assert.True(t, *m.Opts[0].Required)
	assert.Nil(t, m.Opts[1].Required)
	assert.Equal(t, "dev", m.Opts[1].Default)
	assert.Equal(t, "f", m.Opts[2].Short)
	assert.Equal(t, "force", m.Opts[2].Name)
}

func TestParse_TOML(t *testing.T) {
	m, err := Parse("deploy.toml", []byte(deployTOML))
	require.NoError(t, err)

	assert.Equal(t, "deploy", m.Name)
	assert.Equal(t, "use rollout instead", m.Deprecated)
	require.Len(t, m.Args, 1)
	require.Len(t, m.Opts, 2)

	// TOML integers decode as int64; Signature coerces them to int.
	sig, err := m.Signature()
	require.NoError(t, err)

	replicas, ok := sig.Long("replicas")
	require.True(t, ok)
	assert.Equal(t, 2, replicas.Default)

	regions, ok := sig.Long("regions")
	require.True(t, ok)
	assert.Equal(t, []string{"us-east", "eu-west"}, regions.Default)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want string
	}{
		{
			name: "unsupported extension",
			path: "create-user.json",
			data: `{"name": "create-user"}`,
			want: "unsupported extension",
		},
		{
			name: "missing command name",
			path: "nameless.yaml",
			data: "description: no name here",
			want: "missing command name",
		},
		{
			name: "malformed yaml",
			path: "broken.yaml",
			data: "name: [unclosed",
			want: "failed to parse manifest",
		},
		{
			name: "malformed toml",
			path: "broken.toml",
			data: "name = ",
			want: "failed to parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path, []byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestManifest_Signature(t *testing.T) {
	m, err := Parse("create-user.yaml", []byte(createUserYAML))
	require.NoError(t, err)

	sig, err := m.Signature()
	require.NoError(t, err)

	pos := sig.Positionals()
	require.Len(t, pos, 2)
	assert.Equal(t, "email", pos[0].Name)
	assert.True(t, pos[0].Required, "args without a default are required")
	assert.Equal(t, signature.String, pos[0].Value)

	user, ok := sig.Long("user")
	require.True(t, ok)
	assert.Equal(t, "user", user.Name, "binding name defaults to the long spelling")
	assert.True(t, user.Required)

	team, ok := sig.Long("team")
	require.True(t, ok)
	assert.False(t, team.Required, "opts are optional unless required: true")
	assert.Equal(t, "dev", team.Default)

	force, ok := sig.Short('f')
	require.True(t, ok)
	assert.Equal(t, "force", force.Name)
	assert.Equal(t, signature.Bool, force.Value)
}

func TestManifest_ArgOptionality(t *testing.T) {
	no := false
	m := &Manifest{
		Name: "report",
		Args: []Parameter{
			{Name: "input", Type: "string"},
			{Name: "format", Type: "string", Default: "csv"},
			{Name: "limit", Type: "int", Required: &no},
		},
	}

	sig, err := m.Signature()
	require.NoError(t, err)

	pos := sig.Positionals()
	require.Len(t, pos, 3)
	assert.True(t, pos[0].Required)
	assert.False(t, pos[1].Required, "a default makes an arg optional")
	assert.Equal(t, "csv", pos[1].Default)
	assert.False(t, pos[2].Required, "required: false makes an arg optional")
	assert.Nil(t, pos[2].Default)
}

func TestManifest_UntypedParameterIsString(t *testing.T) {
	m := &Manifest{
		Name: "echo",
		Args: []Parameter{{Name: "text"}},
	}

	sig, err := m.Signature()
	require.NoError(t, err)
	assert.Equal(t, signature.String, sig.Positionals()[0].Value)
}

func TestManifest_SignatureErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		want     string
	}{
		{
			name: "option spells both long and short",
			manifest: Manifest{Name: "x", Opts: []Parameter{
				{Long: "force", Short: "f", Type: "bool"},
			}},
			want: "spells both long and short",
		},
		{
			name: "option spells neither",
			manifest: Manifest{Name: "x", Opts: []Parameter{
				{Name: "force", Type: "bool"},
			}},
			want: "spells neither long nor short",
		},
		{
			name: "multi-letter short option",
			manifest: Manifest{Name: "x", Opts: []Parameter{
				{Name: "force", Short: "fz", Type: "bool"},
			}},
			want: "must be a single letter",
		},
		{
			name: "short option without a binding name",
			manifest: Manifest{Name: "x", Opts: []Parameter{
				{Short: "f", Type: "bool"},
			}},
			want: "needs an explicit name",
		},
		{
			name: "nameless positional",
			manifest: Manifest{Name: "x", Args: []Parameter{
				{Type: "string"},
			}},
			want: "positional argument without a name",
		},
		{
			name: "positional spelling an option",
			manifest: Manifest{Name: "x", Args: []Parameter{
				{Name: "email", Long: "email", Type: "string"},
			}},
			want: "must not spell an option",
		},
		{
			name: "unknown type",
			manifest: Manifest{Name: "x", Args: []Parameter{
				{Name: "input", Type: "decimal"},
			}},
			want: "unknown value kind",
		},
		{
			name: "default does not match type",
			manifest: Manifest{Name: "x", Opts: []Parameter{
				{Long: "count", Type: "int", Default: "five"},
			}},
			want: "does not match type",
		},
		{
			name: "array default with non-string element",
			manifest: Manifest{Name: "x", Opts: []Parameter{
				{Long: "ids", Type: "[]string", Default: []any{"a", 2}},
			}},
			want: "is not a string",
		},
		{
			name: "signature violations carry the command name",
			manifest: Manifest{Name: "broken", Args: []Parameter{
				{Name: "a", Type: "string", Default: "x"},
				{Name: "b", Type: "string"},
			}},
			want: `command "broken"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manifest.Signature()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestManifest_DefaultCoercion(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		raw  any
		want any
	}{
		{name: "yaml int", typ: "int", raw: 5, want: 5},
		{name: "toml int64", typ: "int", raw: int64(5), want: 5},
		{name: "json float for int", typ: "int", raw: float64(5), want: 5},
		{name: "float", typ: "float", raw: 0.5, want: 0.5},
		{name: "int widens to float", typ: "float", raw: 2, want: 2.0},
		{name: "string", typ: "string", raw: "dev", want: "dev"},
		{name: "string slice", typ: "[]string", raw: []any{"a", "b"}, want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Name: "x", Opts: []Parameter{
				{Long: "value", Type: tt.typ, Default: tt.raw},
			}}
			sig, err := m.Signature()
			require.NoError(t, err)

			p, ok := sig.Long("value")
			require.True(t, ok)
			assert.Equal(t, tt.want, p.Default)
		})
	}

	// A fractional float cannot stand in for an int default.
	m := &Manifest{Name: "x", Opts: []Parameter{
		{Long: "count", Type: "int", Default: 2.5},
	}}
	_, err := m.Signature()
	assert.Error(t, err)
}
