package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnterminated is returned when a quoted string has no closing quote.
	ErrUnterminated = errors.New("wire: quoted string ended prematurely")

	// ErrBadEscape is returned for a \u escape that is not four hex digits.
	ErrBadEscape = errors.New("wire: invalid escape sequence")
)

const hexDigits = "0123456789abcdef"

// NeedsQuoting reports whether s would be wrapped by QuoteIfNeeded.
func NeedsQuoting(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7f || c == ' ' || c == '"' {
			return true
		}
	}
	return false
}

// QuoteIfNeeded returns s unchanged when it is a single printable ASCII
// token, otherwise Quote(s).
func QuoteIfNeeded(s string) string {
	if NeedsQuoting(s) {
		return Quote(s)
	}
	return s
}

// Quote wraps s as a JSON string literal. Quoting works on bytes, not runes:
// every byte outside printable ASCII becomes \u00xx, so arbitrary binary
// content (including invalid UTF-8) survives Unquote unchanged.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c >= 0x20 && c <= 0x7e {
				b.WriteByte(c)
				continue
			}
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
	}
	b.WriteByte('"')
	return b.String()
}

// UnquoteIfNeeded is the inverse of QuoteIfNeeded. A string starting with
// '"' is decoded up to its closing quote (anything after it is ignored);
// any other string is returned as is.
func UnquoteIfNeeded(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return s, nil
	}
	r := strings.NewReader(s[1:])
	return readQuoted(r)
}

// ReadToken reads one metadata token from r the way it appears inside a
// larger space-separated line: either a quoted string (decoded, reading
// stops after the closing quote) or a bare word (reading stops before the
// first space, which is left unread). Reaching EOF ends a bare word.
func ReadToken(r io.ByteScanner) (string, error) {
	c, err := r.ReadByte()
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if c == '"' {
		return readQuoted(r)
	}

	var b strings.Builder
	for {
		if c == ' ' {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			return b.String(), nil
		}
		b.WriteByte(c)

		c, err = r.ReadByte()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// NewTokenReader adapts r for ReadToken.
func NewTokenReader(r io.Reader) io.ByteScanner {
	if bs, ok := r.(io.ByteScanner); ok {
		return bs
	}
	return bufio.NewReader(r)
}

// readQuoted decodes the body of a quoted string; the opening quote has
// already been consumed.
func readQuoted(r io.ByteReader) (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return "", ErrUnterminated
		}
		if err != nil {
			return "", err
		}

		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			esc, err := r.ReadByte()
			if err == io.EOF {
				return "", ErrUnterminated
			}
			if err != nil {
				return "", err
			}
			switch esc {
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				v, err := readHex4(r)
				if err != nil {
					return "", err
				}
				// Code points map to bytes; only the low byte is kept.
				b.WriteByte(byte(v))
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func readHex4(r io.ByteReader) (uint16, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		c, err := r.ReadByte()
		if err == io.EOF {
			return 0, ErrUnterminated
		}
		if err != nil {
			return 0, err
		}
		d, ok := hexValue(c)
		if !ok {
			return 0, fmt.Errorf("%w: \\u with non-hex digit %q", ErrBadEscape, c)
		}
		v = v<<4 | uint16(d)
	}
	return v, nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
