// Package testutil provides builders and fixtures shared by item metadata
// tests.
package testutil

import (
	"strings"

	"github.com/roach88/itemmeta/internal/wire"
)

// JSON fixtures for the reserved keys.
const (
	// ToolCapsJSON is a complete tool capabilities document in the canonical
	// encoding produced by tool.ToolCapabilities.
	ToolCapsJSON = `{"damage_groups":{"fleshy":4},"full_punch_interval":0.9,"groupcaps":{},"max_drop_level":3,"punch_attack_uses":0}`

	// WearBarJSON is a two-stop linear wear bar.
	WearBarJSON = `{"blend":"linear","color_stops":{"0":"#ff0000","1":"#00ff00"}}`

	// BrokenJSON is not valid JSON.
	BrokenJSON = `{"max_drop_level":`
)

// Body builds an unquoted wire body from alternating key and value
// arguments, in the order given. A trailing key without a value is written
// without its pair terminator, producing a ragged tail.
func Body(kv ...string) string {
	var b strings.Builder
	b.WriteByte(0x01)
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(kv[i])
		if i+1 == len(kv) {
			break
		}
		b.WriteByte(0x02)
		b.WriteString(kv[i+1])
		b.WriteByte(0x03)
	}
	return b.String()
}

// Payload is Body wrapped for transport.
func Payload(kv ...string) string {
	return wire.QuoteIfNeeded(Body(kv...))
}
