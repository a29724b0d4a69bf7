package wire

import "strings"

// Finder walks a string, handing out the text between successive
// separators. Running out of input is never an error: the final Next call
// returns whatever is left, so a fragment with a missing terminator is
// still returned as a token.
type Finder struct {
	s   string
	pos int
}

// NewFinder creates a Finder positioned at the start of s.
func NewFinder(s string) *Finder {
	return &Finder{s: s}
}

// Seek moves the cursor to byte offset pos, clamped to the input length.
func (f *Finder) Seek(pos int) {
	f.pos = min(max(pos, 0), len(f.s))
}

// Next returns the text from the cursor up to the next occurrence of sep
// and moves the cursor past sep. When sep does not occur, the remainder of
// the input is returned and the cursor moves to the end. At the end of the
// input Next returns "".
func (f *Finder) Next(sep string) string {
	if f.pos >= len(f.s) {
		return ""
	}
	rest := f.s[f.pos:]
	n := -1
	if sep != "" {
		n = strings.Index(rest, sep)
	}
	if n < 0 {
		f.pos = len(f.s)
		return rest
	}
	f.pos += n + len(sep)
	return rest[:n]
}

// AtEnd reports whether the input is exhausted.
func (f *Finder) AtEnd() bool {
	return f.pos >= len(f.s)
}

// Rest returns the unread remainder of the input.
func (f *Finder) Rest() string {
	return f.s[f.pos:]
}
