package itemstack

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/itemmeta/internal/testutil"
	"github.com/roach88/itemmeta/internal/tool"
)

// Wire payloads are compared against testdata/golden. To regenerate:
//
//	go test ./internal/itemstack -update
func TestSerializeGolden(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Metadata
	}{
		{
			name:  "empty",
			build: func(t *testing.T) *Metadata { return New() },
		},
		{
			name: "sorted_pairs",
			build: func(t *testing.T) *Metadata {
				m := New()
				_, _ = m.SetString("count", "3")
				_, _ = m.SetString("color", "red")
				_, _ = m.SetString("description", "Sharp \"pick\"")
				return m
			},
		},
		{
			name: "tool_capabilities",
			build: func(t *testing.T) *Metadata {
				m := New()
				caps, err := tool.ParseToolCapabilities(testutil.ToolCapsJSON)
				require.NoError(t, err)
				require.NoError(t, m.SetToolCapabilities(caps))
				return m
			},
		},
		{
			name: "legacy_reencoded",
			build: func(t *testing.T) *Metadata {
				m, err := Parse("old-style-value")
				require.NoError(t, err)
				return m
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build(t)
			g.Assert(t, tt.name, []byte(m.Serialize()))

			decoded, err := Parse(m.Serialize())
			require.NoError(t, err)
			require.True(t, m.Equal(decoded))
		})
	}
}
