package itemstack

import (
	"strings"

	"github.com/roach88/itemmeta/internal/meta"
	"github.com/roach88/itemmeta/internal/wire"
)

// Framing bytes of the wire format.
const (
	Start     byte = 0x01
	KVDelim   byte = 0x02
	PairDelim byte = 0x03
)

const reservedBytes = "\x01\x02\x03"

// Sanitize removes every framing byte from s. Other bytes keep their order;
// s is not required to be valid UTF-8.
func Sanitize(s string) string {
	if !strings.ContainsAny(s, reservedBytes) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Start, KVDelim, PairDelim:
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// EncodeBody returns the unquoted wire body for m. Entries whose key and
// value are both empty are skipped.
func EncodeBody(m *meta.Metadata) string {
	var b strings.Builder
	b.WriteByte(Start)
	for k, v := range m.All() {
		if k == "" && v == "" {
			continue
		}
		b.WriteString(k)
		b.WriteByte(KVDelim)
		b.WriteString(v)
		b.WriteByte(PairDelim)
	}
	return b.String()
}

// Encode returns the transport form of m: EncodeBody passed through
// wire.QuoteIfNeeded.
func Encode(m *meta.Metadata) string {
	return wire.QuoteIfNeeded(EncodeBody(m))
}

// DecodeBody replaces the contents of m with the pairs in body and reports
// whether body took the legacy path.
//
// A body starting with Start is split into pairs; a pair missing its
// terminator takes the rest of the input as its value. Any other non-empty
// body is stored whole under the empty key. Framing bytes left inside a key
// or value are removed, as on every other write.
func DecodeBody(body string, m *meta.Metadata) (legacy bool) {
	m.Clear()
	if body == "" {
		return false
	}
	if body[0] != Start {
		m.Put("", Sanitize(body))
		return true
	}

	f := wire.NewFinder(body)
	f.Seek(1)
	for !f.AtEnd() {
		key := f.Next(string(KVDelim))
		value := f.Next(string(PairDelim))
		m.Put(Sanitize(key), Sanitize(value))
	}
	return false
}

// Decode unquotes payload and decodes it into m. On a quoting error m is
// left untouched.
func Decode(payload string, m *meta.Metadata) (legacy bool, err error) {
	body, err := wire.UnquoteIfNeeded(payload)
	if err != nil {
		return false, err
	}
	return DecodeBody(body, m), nil
}
