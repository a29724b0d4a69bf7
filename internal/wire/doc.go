// Package wire holds the transport helpers used by the item metadata codec.
//
// # Quoting
//
// Encoded metadata travels inside space-separated item strings, so a body
// containing control bytes, spaces or quotes is wrapped as a JSON string
// literal. Quoting is byte-oriented: bytes outside printable ASCII become
// \u00xx escapes and come back as the same byte, which makes
// Quote/Unquote an exact round trip for any input.
//
//	QuoteIfNeeded("plain")        // plain
//	QuoteIfNeeded("\x01a\x02b\x03") // "\u0001a\u0002b\u0003"
//
// # Tokenizing
//
// Finder splits delimited text. It tolerates ragged input: a trailing
// fragment without its terminator is returned as the last token.
package wire
