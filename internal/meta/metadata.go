// Package meta provides the generic string-keyed metadata container that
// item-level metadata builds on.
//
// Keys iterate in ascending byte order so that anything serialized from a
// Metadata is reproducible for equal logical content.
package meta

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// maxResolveDepth limits ${key} indirection to a single hop.
const maxResolveDepth = 1

// Metadata is an owned map of string keys to string values.
// The zero value is ready to use. Not safe for concurrent mutation.
type Metadata struct {
	vars     map[string]string
	modified bool
}

// New creates an empty Metadata.
func New() *Metadata {
	return &Metadata{vars: make(map[string]string)}
}

// Get returns the value stored under key and whether it exists.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.vars[key]
	return v, ok
}

// GetString returns the value stored under key, or "" when absent.
func (m *Metadata) GetString(key string) string {
	return m.vars[key]
}

// GetStringResolved is like GetString but follows a value of the form
// "${other}" to the value of "other". Only one level is followed; a
// reference that points at another reference is returned verbatim.
func (m *Metadata) GetStringResolved(key string) string {
	return m.resolve(m.vars[key], 0)
}

func (m *Metadata) resolve(s string, depth int) string {
	if depth >= maxResolveDepth {
		return s
	}
	if len(s) >= 3 && strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return m.resolve(m.vars[s[2:len(s)-1]], depth+1)
	}
	return s
}

// Contains reports whether key exists.
func (m *Metadata) Contains(key string) bool {
	_, ok := m.vars[key]
	return ok
}

// Set stores value under key and reports whether the stored content changed.
// An empty value removes the key.
func (m *Metadata) Set(key, value string) bool {
	if value == "" {
		if _, ok := m.vars[key]; !ok {
			return false
		}
		delete(m.vars, key)
		m.modified = true
		return true
	}

	if old, ok := m.vars[key]; ok && old == value {
		return false
	}
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	m.vars[key] = value
	m.modified = true
	return true
}

// Put inserts key/value without the empty-value removal rule of Set.
// Decoders use it so that every decoded pair is kept verbatim; the last
// Put for a key wins.
func (m *Metadata) Put(key, value string) {
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	m.vars[key] = value
	m.modified = true
}

// Clear removes every entry.
func (m *Metadata) Clear() {
	if len(m.vars) > 0 {
		m.modified = true
	}
	clear(m.vars)
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	return len(m.vars)
}

// Empty reports whether there are no entries.
func (m *Metadata) Empty() bool {
	return len(m.vars) == 0
}

// Keys returns all keys in ascending order.
func (m *Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.vars))
}

// All iterates over entries in ascending key order.
func (m *Metadata) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.vars[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the entries.
func (m *Metadata) Map() map[string]string {
	return maps.Clone(m.vars)
}

// Equal reports whether both containers hold the same entries.
// The modified flag is not compared.
func (m *Metadata) Equal(other *Metadata) bool {
	return maps.Equal(m.vars, other.vars)
}

// Modified reports whether any mutation changed content since the flag was
// last reset.
func (m *Metadata) Modified() bool {
	return m.modified
}

// SetModified overrides the modified flag.
func (m *Metadata) SetModified(v bool) {
	m.modified = v
}
