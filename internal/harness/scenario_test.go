package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	data := []byte(`
name: basic
description: "Basic scenario"
steps:
  - op: set
    key: "a\x01b"
    value: v
    expect: { changed: true }
  - op: clear
assertions:
  - type: count
    count: 0
`)
	s, err := ParseScenario(data)
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, OpSet, s.Steps[0].Op)
	assert.Equal(t, "a\x01b", s.Steps[0].Key, "YAML escapes produce raw bytes")
	require.NotNil(t, s.Steps[0].Expect)
	require.NotNil(t, s.Steps[0].Expect.Changed)
	assert.True(t, *s.Steps[0].Expect.Changed)
	assert.Nil(t, s.Steps[1].Expect)
}

func TestParseScenario_UnknownFieldRejected(t *testing.T) {
	data := []byte(`
name: typo
description: "Misspelled field"
steps:
  - op: set
    kee: a
assertions:
  - type: count
`)
	_, err := ParseScenario(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{op: clear}]\nassertions: [{type: count}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps: [{op: clear}]\nassertions: [{type: count}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\nassertions: [{type: count}]\n",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nsteps: [{op: clear}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nsteps: [{op: explode}]\nassertions: [{type: count}]\n",
			wantErr: `unknown op "explode"`,
		},
		{
			name:    "typed setter without value",
			yaml:    "name: n\ndescription: d\nsteps: [{op: set_wear_bar}]\nassertions: [{type: count}]\n",
			wantErr: "value is required for set_wear_bar",
		},
		{
			name:    "changed on non-set op",
			yaml:    "name: n\ndescription: d\nsteps: [{op: clear, expect: {changed: true}}]\nassertions: [{type: count}]\n",
			wantErr: "changed only applies to set",
		},
		{
			name:    "unknown error class",
			yaml:    "name: n\ndescription: d\nsteps: [{op: clear, expect: {error: boom}}]\nassertions: [{type: count}]\n",
			wantErr: `unknown error class "boom"`,
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps: [{op: clear}]\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "bad cache name",
			yaml:    "name: n\ndescription: d\nsteps: [{op: clear}]\nassertions: [{type: cache_absent, cache: groups}]\n",
			wantErr: "cache must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_TestdataScenariosAreValid(t *testing.T) {
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", entry.Name()))
			require.NoError(t, err)
			assert.Equal(t, entry.Name(), s.Name+".yaml", "file name matches scenario name")
		})
	}
}
