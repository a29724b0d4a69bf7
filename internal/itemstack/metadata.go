package itemstack

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/roach88/itemmeta/internal/meta"
	"github.com/roach88/itemmeta/internal/tool"
	"github.com/roach88/itemmeta/internal/wire"
)

// Reserved keys backing the derived views.
const (
	ToolCapabilitiesKey = "tool_capabilities"
	WearBarKey          = "wear_color"
)

// cached is an optional derived value.
type cached[T any] struct {
	value T
	ok    bool
}

func (c cached[T]) get() (T, bool) {
	return c.value, c.ok
}

// Metadata is the metadata of one item stack.
//
// The zero value is empty and ready to use. Metadata is not safe for
// concurrent use; every method finishes updating both the mapping and the
// derived views before it returns.
type Metadata struct {
	vars     meta.Metadata
	toolCaps cached[tool.ToolCapabilities]
	wearBar  cached[tool.WearBarParams]
}

// New returns empty item metadata.
func New() *Metadata {
	return &Metadata{}
}

// Parse decodes payload into new item metadata. The returned Metadata is
// non-nil whenever the payload itself could be unquoted, even if a reserved
// key failed to parse.
func Parse(payload string) (*Metadata, error) {
	m := New()
	if err := m.Deserialize(payload); err != nil {
		if IsParseError(err) {
			return m, err
		}
		return nil, err
	}
	return m, nil
}

// SetString sanitizes key and value, stores them and reports whether the
// stored content changed. An empty value removes the key.
//
// Writing a reserved key re-derives its view; if the new value does not
// parse, the entry is still stored, the view becomes absent and a
// *ParseError is returned alongside the change flag.
func (m *Metadata) SetString(key, value string) (bool, error) {
	key = Sanitize(key)
	value = Sanitize(value)

	changed := m.vars.Set(key, value)
	switch key {
	case ToolCapabilitiesKey:
		return changed, m.updateToolCapabilities()
	case WearBarKey:
		return changed, m.updateWearBar()
	}
	return changed, nil
}

// GetString returns the value for key, or "" when absent.
func (m *Metadata) GetString(key string) string {
	return m.vars.GetString(key)
}

// GetStringResolved returns the value for key, following one level of
// "${other}" indirection.
func (m *Metadata) GetStringResolved(key string) string {
	return m.vars.GetStringResolved(key)
}

// Get returns the value for key and whether it exists.
func (m *Metadata) Get(key string) (string, bool) {
	return m.vars.Get(key)
}

// Contains reports whether key exists.
func (m *Metadata) Contains(key string) bool {
	return m.vars.Contains(key)
}

// Keys returns all keys in ascending order.
func (m *Metadata) Keys() []string {
	return m.vars.Keys()
}

// All iterates over entries in ascending key order.
func (m *Metadata) All() iter.Seq2[string, string] {
	return m.vars.All()
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	return m.vars.Len()
}

// Equal reports whether both hold the same entries. Views are derived from
// entries, so they are equal too.
func (m *Metadata) Equal(other *Metadata) bool {
	return m.vars.Equal(&other.vars)
}

// Modified reports whether content changed since SetModified(false).
func (m *Metadata) Modified() bool {
	return m.vars.Modified()
}

// SetModified overrides the modified flag.
func (m *Metadata) SetModified(v bool) {
	m.vars.SetModified(v)
}

// Clear removes every entry and drops both views.
func (m *Metadata) Clear() {
	m.vars.Clear()
	// An empty mapping has no reserved keys, so neither update can fail.
	_ = m.updateViews()
}

// Serialize returns the transport form of the metadata.
func (m *Metadata) Serialize() string {
	return Encode(&m.vars)
}

// SerializeTo writes the transport form of the metadata to w.
func (m *Metadata) SerializeTo(w io.Writer) error {
	_, err := io.WriteString(w, m.Serialize())
	return err
}

// Deserialize replaces the metadata with the contents of payload and
// re-derives both views.
//
// A payload whose quoting is broken is rejected before anything changes.
// Otherwise the entries are always replaced; parse failures of reserved
// keys are returned as *ParseError values (joined when both fail).
func (m *Metadata) Deserialize(payload string) error {
	body, err := wire.UnquoteIfNeeded(payload)
	if err != nil {
		return fmt.Errorf("deserialize item metadata: %w", err)
	}
	return m.load(body)
}

// DeserializeFrom reads one metadata token from r, as it appears inside a
// space-separated item string, and deserializes it. Reading stops at the
// closing quote of a quoted token or before the first space of a bare one.
// When r is not an io.ByteScanner it is buffered, so bytes past the token
// may be consumed from r.
func (m *Metadata) DeserializeFrom(r io.Reader) error {
	body, err := wire.ReadToken(wire.NewTokenReader(r))
	if err != nil {
		return fmt.Errorf("deserialize item metadata: %w", err)
	}
	return m.load(body)
}

func (m *Metadata) load(body string) error {
	if DecodeBody(body, &m.vars) {
		slog.Debug("item metadata in legacy format", "length", len(body))
	}
	return m.updateViews()
}

// ToolCapabilitiesOverride returns the parsed "tool_capabilities" value.
func (m *Metadata) ToolCapabilitiesOverride() (tool.ToolCapabilities, bool) {
	return m.toolCaps.get()
}

// SetToolCapabilities stores caps as JSON under "tool_capabilities".
func (m *Metadata) SetToolCapabilities(caps tool.ToolCapabilities) error {
	data, err := json.Marshal(caps)
	if err != nil {
		return fmt.Errorf("encode tool capabilities: %w", err)
	}
	_, err = m.SetString(ToolCapabilitiesKey, string(data))
	return err
}

// ClearToolCapabilities removes the "tool_capabilities" entry.
func (m *Metadata) ClearToolCapabilities() {
	// An empty value removes the key, which cannot fail to parse.
	_, _ = m.SetString(ToolCapabilitiesKey, "")
}

// WearBarOverride returns the parsed "wear_color" value.
func (m *Metadata) WearBarOverride() (tool.WearBarParams, bool) {
	return m.wearBar.get()
}

// SetWearBarParams stores params as JSON under "wear_color".
func (m *Metadata) SetWearBarParams(params tool.WearBarParams) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode wear bar params: %w", err)
	}
	_, err = m.SetString(WearBarKey, string(data))
	return err
}

// ClearWearBarParams removes the "wear_color" entry.
func (m *Metadata) ClearWearBarParams() {
	_, _ = m.SetString(WearBarKey, "")
}

func (m *Metadata) updateViews() error {
	return errors.Join(m.updateToolCapabilities(), m.updateWearBar())
}

// updateToolCapabilities re-derives the tool capabilities view. The new
// value is committed only after a successful parse; on failure the view is
// dropped rather than left describing an older value.
func (m *Metadata) updateToolCapabilities() error {
	raw, ok := m.vars.Get(ToolCapabilitiesKey)
	if !ok || raw == "" {
		m.toolCaps = cached[tool.ToolCapabilities]{}
		return nil
	}

	caps, err := tool.ParseToolCapabilities(raw)
	if err != nil {
		m.toolCaps = cached[tool.ToolCapabilities]{}
		slog.Warn("item metadata: invalid tool capabilities", "error", err)
		return &ParseError{Key: ToolCapabilitiesKey, Err: err}
	}
	m.toolCaps = cached[tool.ToolCapabilities]{value: caps, ok: true}
	return nil
}

// updateWearBar re-derives the wear bar view. A well-formed value that does
// not describe a usable bar leaves the view absent without an error.
func (m *Metadata) updateWearBar() error {
	raw, ok := m.vars.Get(WearBarKey)
	if !ok || raw == "" {
		m.wearBar = cached[tool.WearBarParams]{}
		return nil
	}

	params, usable, err := tool.ParseWearBarParams(raw)
	if err != nil {
		m.wearBar = cached[tool.WearBarParams]{}
		slog.Warn("item metadata: invalid wear bar params", "error", err)
		return &ParseError{Key: WearBarKey, Err: err}
	}
	m.wearBar = cached[tool.WearBarParams]{value: params, ok: usable}
	return nil
}
