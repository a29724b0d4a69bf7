package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIfNeeded(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain word", "hello", "hello"},
		{"tilde is printable", "a~b", "a~b"},
		{"space", "a b", `"a b"`},
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash alone is safe", `a\b`, `a\b`},
		{"control bytes", "\x01a\x02b\x03", `"\u0001a\u0002b\u0003"`},
		{"short escapes", "\x01\b\f\n\r\t", `"\u0001\b\f\n\r\t"`},
		{"del", "\x7f", `"\u007f"`},
		{"high byte", "\xff", `"\u00ff"`},
		{"nul", "\x00", `"\u0000"`},
		{"utf8 is escaped per byte", "é", `"\u00c3\u00a9"`},
		{"backslash inside quoted", "\x01\\", `"\u0001\\"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIfNeeded(tt.input))
		})
	}
}

func TestQuoteRoundTripsEveryByte(t *testing.T) {
	var all bytes.Buffer
	for i := 0; i < 256; i++ {
		all.WriteByte(byte(i))
	}
	input := all.String()

	quoted := Quote(input)
	for i := 0; i < len(quoted); i++ {
		assert.True(t, quoted[i] >= 0x20 && quoted[i] <= 0x7e, "byte %d of quoted output is not printable", i)
	}

	got, err := UnquoteIfNeeded(quoted)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestUnquoteIfNeeded(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"bare passes through", "plain text", "plain text"},
		{"quoted", `"a b"`, "a b"},
		{"uppercase hex", `"\u00FF"`, "\xff"},
		{"wide code point keeps low byte", `"\u2041"`, "A"},
		{"unknown escape is literal", `"\/\q"`, "/q"},
		{"trailing text after quote ignored", `"a" tail`, "a"},
		{"empty quoted", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnquoteIfNeeded(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUnquoteErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"no closing quote", `"abc`, ErrUnterminated},
		{"dangling backslash", `"abc\`, ErrUnterminated},
		{"short unicode escape", `"\u00`, ErrUnterminated},
		{"non hex digit", `"\u00zz"`, ErrBadEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnquoteIfNeeded(tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestReadTokenBareWordStopsAtSpace(t *testing.T) {
	r := strings.NewReader("plain rest")

	tok, err := ReadToken(r)
	require.NoError(t, err)
	assert.Equal(t, "plain", tok)

	next, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(' '), next, "space is left unread")
}

func TestReadTokenQuoted(t *testing.T) {
	r := strings.NewReader(`"\u0001a\u0002b c\u0003" 5`)

	tok, err := ReadToken(r)
	require.NoError(t, err)
	assert.Equal(t, "\x01a\x02b c\x03", tok)

	rest := make([]byte, r.Len())
	_, _ = r.Read(rest)
	assert.Equal(t, " 5", string(rest))
}

func TestReadTokenEOF(t *testing.T) {
	tok, err := ReadToken(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "", tok)

	tok, err = ReadToken(strings.NewReader("word"))
	require.NoError(t, err)
	assert.Equal(t, "word", tok)

	_, err = ReadToken(strings.NewReader(`"open`))
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestNewTokenReader(t *testing.T) {
	sr := strings.NewReader("x")
	assert.Same(t, sr, NewTokenReader(sr))

	tok, err := ReadToken(NewTokenReader(bytes.NewBufferString("abc def")))
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
