package itemstack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/itemmeta/internal/meta"
	"github.com/roach88/itemmeta/internal/testutil"
	"github.com/roach88/itemmeta/internal/wire"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "hello", "hello"},
		{"empty", "", ""},
		{"all reserved", "\x01\x02\x03", ""},
		{"mixed", "a\x01b\x02c\x03d", "abcd"},
		{"keeps other control bytes", "\x00\x04\n", "\x00\x04\n"},
		{"invalid utf8 untouched", "\xff\x01\xfe", "\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestEncodeBodyAscendingOrder(t *testing.T) {
	m := meta.New()
	m.Set("b", "2")
	m.Set("a", "1")

	assert.Equal(t, testutil.Body("a", "1", "b", "2"), EncodeBody(m))
}

func TestEncodeEmpty(t *testing.T) {
	m := meta.New()
	assert.Equal(t, "\x01", EncodeBody(m))
	assert.Equal(t, `"\u0001"`, Encode(m))
}

func TestEncodeSkipsEmptyPair(t *testing.T) {
	m := meta.New()
	m.Put("", "")
	m.Put("k", "")
	m.Put("", "legacy")

	// The second Put for "" replaces the empty pair.
	assert.Equal(t, testutil.Body("", "legacy", "k", ""), EncodeBody(m))

	m.Put("", "")
	assert.Equal(t, testutil.Body("k", ""), EncodeBody(m))
}

func TestDecodeBodyPairs(t *testing.T) {
	m := meta.New()
	legacy := DecodeBody(testutil.Body("b", "2", "a", "1"), m)

	assert.False(t, legacy)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m.Map())
}

func TestDecodeBodyLastWriteWins(t *testing.T) {
	m := meta.New()
	DecodeBody(testutil.Body("k", "old", "k", "new"), m)

	assert.Equal(t, "new", m.GetString("k"))
	assert.Equal(t, 1, m.Len())
}

func TestDecodeBodyRaggedTail(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{"value without terminator", "\x01a\x021\x03b\x02tail", map[string]string{"a": "1", "b": "tail"}},
		{"key without delimiter", "\x01a\x021\x03orphan", map[string]string{"a": "1", "orphan": ""}},
		{"start only", "\x01", map[string]string{}},
		{"empty key and value", "\x01\x02\x03", map[string]string{"": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meta.New()
			DecodeBody(tt.body, m)
			assert.Equal(t, tt.expected, nonNil(m.Map()))
		})
	}
}

func TestDecodeBodyStripsFramingBytes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		legacy   bool
		expected map[string]string
	}{
		{"stray start in key", "\x01a\x01b\x02v\x02w\x03", false, map[string]string{"ab": "vw"}},
		{"value of only framing bytes", "\x01k\x02\x01\x03", false, map[string]string{"k": ""}},
		{"ragged tail", "\x01a\x021\x03b\x02t\x01ail", false, map[string]string{"a": "1", "b": "tail"}},
		{"legacy body", "x\x02y\x03", true, map[string]string{"": "xy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meta.New()
			legacy := DecodeBody(tt.body, m)

			assert.Equal(t, tt.legacy, legacy)
			assert.Equal(t, tt.expected, m.Map())
			for k, v := range m.All() {
				assert.False(t, strings.ContainsAny(k, reservedBytes), "key %q", k)
				assert.False(t, strings.ContainsAny(v, reservedBytes), "value %q", v)
			}
		})
	}
}

func TestDecodeBodyLegacy(t *testing.T) {
	m := meta.New()
	legacy := DecodeBody("plain text", m)

	assert.True(t, legacy)
	assert.Equal(t, map[string]string{"": "plain text"}, m.Map())
}

func TestDecodeBodyReplacesContents(t *testing.T) {
	m := meta.New()
	m.Set("stale", "x")

	DecodeBody("", m)
	assert.Equal(t, 0, m.Len())
}

func TestDecodeQuotingError(t *testing.T) {
	m := meta.New()
	m.Set("keep", "me")

	_, err := Decode(`"\u0001a`, m)
	assert.ErrorIs(t, err, wire.ErrUnterminated)
	assert.Equal(t, "me", m.GetString("keep"), "mapping untouched on quoting errors")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := meta.New()
	m.Set("", "legacy value")
	m.Set("description", "A \"quoted\" name\nwith lines")
	m.Set("binary", "\x00\x7f\xff\\")
	m.Set("k", "v")

	decoded := meta.New()
	legacy, err := Decode(Encode(m), decoded)
	require.NoError(t, err)
	assert.False(t, legacy)
	assert.True(t, m.Equal(decoded))
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
