// Package itemstack implements the metadata attached to a single item stack.
//
// Metadata is a string-keyed store with two derived views kept eagerly in
// sync with reserved keys:
//
//   - "tool_capabilities" → ToolCapabilitiesOverride (tool.ToolCapabilities)
//   - "wear_color"        → WearBarOverride (tool.WearBarParams)
//
// Every mutation that can touch a reserved key (SetString on that key,
// Clear, Deserialize) re-parses it before returning, so reading a view never
// parses and never fails.
//
// # Wire Format
//
//	payload := quoted(body) | body
//	body    := "" | START pair*
//	pair    := key KVDELIM value PAIRDELIM
//
// with START=0x01, KVDELIM=0x02 and PAIRDELIM=0x03. Pairs are written in
// ascending key order. The body is quoted with wire.QuoteIfNeeded, so any
// non-empty metadata travels as a JSON string literal.
//
// A non-empty payload that does not start with START is a legacy payload:
// the whole string becomes the value of the empty key.
//
// # Sanitizing
//
// The three framing bytes are stripped from keys and values on SetString,
// which keeps every stored pair representable in the wire format.
package itemstack
