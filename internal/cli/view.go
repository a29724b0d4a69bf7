package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/roach88/itemmeta/internal/itemstack"
	"github.com/roach88/itemmeta/internal/wire"
)

// MetadataView is the printable form of an item's metadata.
type MetadataView struct {
	Payload          string            `json:"payload" yaml:"payload"`
	Entries          map[string]string `json:"entries" yaml:"entries"`
	ToolCapabilities any               `json:"tool_capabilities,omitempty" yaml:"tool_capabilities,omitempty"`
	WearBar          any               `json:"wear_bar,omitempty" yaml:"wear_bar,omitempty"`
	ParseErrors      []string          `json:"parse_errors,omitempty" yaml:"parse_errors,omitempty"`
}

// newMetadataView builds the view of m. parseErr is the error returned by
// the operation that produced m; its reserved-key failures are listed by key.
func newMetadataView(m *itemstack.Metadata, parseErr error) (MetadataView, error) {
	view := MetadataView{
		Payload:     m.Serialize(),
		Entries:     make(map[string]string, m.Len()),
		ParseErrors: itemstack.ParseErrorKeys(parseErr),
	}
	slices.Sort(view.ParseErrors)
	for k, v := range m.All() {
		view.Entries[k] = v
	}

	if caps, ok := m.ToolCapabilitiesOverride(); ok {
		v, err := genericValue(caps)
		if err != nil {
			return MetadataView{}, fmt.Errorf("encode tool capabilities: %w", err)
		}
		view.ToolCapabilities = v
	}
	if bar, ok := m.WearBarOverride(); ok {
		v, err := genericValue(bar)
		if err != nil {
			return MetadataView{}, fmt.Errorf("encode wear bar params: %w", err)
		}
		view.WearBar = v
	}
	return view, nil
}

// genericValue converts v to plain maps and slices through its JSON form,
// so that JSON and YAML output share one field layout.
func genericValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// writeText prints the view for humans. Values are quoted because they may
// hold control bytes.
func (v MetadataView) writeText(w io.Writer) {
	fmt.Fprintf(w, "payload: %s\n", v.Payload)
	fmt.Fprintf(w, "entries (%d):\n", len(v.Entries))
	for _, k := range sortedKeys(v.Entries) {
		fmt.Fprintf(w, "  %q = %q\n", k, v.Entries[k])
	}
	fmt.Fprintf(w, "tool_capabilities: %s\n", describeView(v.ToolCapabilities))
	fmt.Fprintf(w, "wear_bar: %s\n", describeView(v.WearBar))
	if len(v.ParseErrors) > 0 {
		fmt.Fprintf(w, "parse errors: %s\n", strings.Join(v.ParseErrors, ", "))
	}
}

func describeView(v any) string {
	if v == nil {
		return "(none)"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}

// payloadFailure reports a broken payload. Reserved-key parse errors are
// not failures; they are listed in the view instead.
func payloadFailure(f *OutputFormatter, err error) error {
	if errors.Is(err, wire.ErrUnterminated) || errors.Is(err, wire.ErrBadEscape) {
		return f.Fail(ExitFailure, ErrCodePayload, err)
	}
	return nil
}

// writeView prints view in the configured format.
func writeView(f *OutputFormatter, view MetadataView) error {
	if f.Structured() {
		return f.Success(view)
	}
	view.writeText(f.Writer)
	return nil
}
