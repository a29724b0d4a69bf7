// Package tool defines the structured item values that item metadata can
// override: tool capabilities and wear bar parameters.
//
// Both types encode to and decode from JSON. Encoding is deterministic
// (object keys are emitted in sorted order) so equal values always produce
// the same metadata string.
package tool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrNotObject is returned when a JSON document is valid but its root is
// not an object.
var ErrNotObject = errors.New("tool: JSON root is not an object")

// ErrLevelOutOfRange is returned when encoding a dig time whose level is
// above MaxTimesLevel.
var ErrLevelOutOfRange = errors.New("tool: dig time level out of range")

// MaxTimesLevel is the highest level a dig time may be encoded at. Times
// are written as a dense array, so the bound also caps its length.
const MaxTimesLevel = 1 << 16

// Defaults applied before decoding, matching a freshly constructed value.
const (
	DefaultFullPunchInterval float32 = 1.4
	DefaultMaxDropLevel              = 1
	DefaultGroupCapUses              = 20
	DefaultGroupCapMaxLevel          = 1
)

// ToolGroupCap describes how a tool digs nodes of one group.
type ToolGroupCap struct {
	// Times maps a node level to the dig time in seconds.
	Times    map[int]float32
	Uses     int
	MaxLevel int
}

// NewToolGroupCap returns a group capability with default uses and level.
func NewToolGroupCap() ToolGroupCap {
	return ToolGroupCap{
		Times:    map[int]float32{},
		Uses:     DefaultGroupCapUses,
		MaxLevel: DefaultGroupCapMaxLevel,
	}
}

// ToolCapabilities describes digging and damage properties of a tool.
type ToolCapabilities struct {
	FullPunchInterval float32
	MaxDropLevel      int
	PunchAttackUses   int
	GroupCaps         map[string]ToolGroupCap
	DamageGroups      map[string]int
}

// NewToolCapabilities returns capabilities with default values.
func NewToolCapabilities() ToolCapabilities {
	return ToolCapabilities{
		FullPunchInterval: DefaultFullPunchInterval,
		MaxDropLevel:      DefaultMaxDropLevel,
		GroupCaps:         map[string]ToolGroupCap{},
		DamageGroups:      map[string]int{},
	}
}

type groupCapJSON struct {
	MaxLevel int        `json:"maxlevel"`
	Times    []*float32 `json:"times"`
	Uses     int        `json:"uses"`
}

// Fields are declared in key order so the encoded object is sorted.
type toolCapsJSON struct {
	DamageGroups      map[string]int          `json:"damage_groups"`
	FullPunchInterval float32                 `json:"full_punch_interval"`
	GroupCaps         map[string]groupCapJSON `json:"groupcaps"`
	MaxDropLevel      int                     `json:"max_drop_level"`
	PunchAttackUses   int                     `json:"punch_attack_uses"`
}

// MarshalJSON encodes the capabilities. Dig times are written as an array
// indexed by level, with null for levels that have no time.
func (tc ToolCapabilities) MarshalJSON() ([]byte, error) {
	out := toolCapsJSON{
		DamageGroups:      map[string]int{},
		FullPunchInterval: tc.FullPunchInterval,
		GroupCaps:         map[string]groupCapJSON{},
		MaxDropLevel:      tc.MaxDropLevel,
		PunchAttackUses:   tc.PunchAttackUses,
	}
	maps.Copy(out.DamageGroups, tc.DamageGroups)
	for name, gc := range tc.GroupCaps {
		g, err := gc.toJSON()
		if err != nil {
			return nil, fmt.Errorf("groupcap %q: %w", name, err)
		}
		out.GroupCaps[name] = g
	}
	return json.Marshal(out)
}

func (gc ToolGroupCap) toJSON() (groupCapJSON, error) {
	out := groupCapJSON{MaxLevel: gc.MaxLevel, Uses: gc.Uses, Times: []*float32{}}
	levels := slices.Sorted(maps.Keys(gc.Times))
	if len(levels) == 0 || levels[len(levels)-1] < 0 {
		return out, nil
	}
	top := levels[len(levels)-1]
	if top > MaxTimesLevel {
		return groupCapJSON{}, fmt.Errorf("%w: %d > %d", ErrLevelOutOfRange, top, MaxTimesLevel)
	}
	out.Times = make([]*float32, top+1)
	for _, level := range levels {
		if level < 0 {
			continue
		}
		t := gc.Times[level]
		out.Times[level] = &t
	}
	return out, nil
}

// UnmarshalJSON decodes capabilities on top of the defaults. Malformed JSON
// and non-object roots are errors; individual fields of the wrong type are
// ignored and keep their default.
func (tc *ToolCapabilities) UnmarshalJSON(data []byte) error {
	root, err := decodeObject(data)
	if err != nil {
		return err
	}

	out := NewToolCapabilities()
	decodeField(root, "full_punch_interval", &out.FullPunchInterval)
	decodeField(root, "max_drop_level", &out.MaxDropLevel)
	decodeField(root, "punch_attack_uses", &out.PunchAttackUses)

	var groups map[string]json.RawMessage
	if decodeField(root, "groupcaps", &groups) {
		for name, raw := range groups {
			out.GroupCaps[name] = groupCapFromJSON(raw)
		}
	}

	var damage map[string]json.RawMessage
	if decodeField(root, "damage_groups", &damage) {
		for name, raw := range damage {
			var v int
			if decodeValue(raw, &v) {
				out.DamageGroups[name] = v
			}
		}
	}

	*tc = out
	return nil
}

func groupCapFromJSON(raw json.RawMessage) ToolGroupCap {
	gc := NewToolGroupCap()
	obj, err := decodeObject(raw)
	if err != nil {
		return gc
	}
	decodeField(obj, "maxlevel", &gc.MaxLevel)
	decodeField(obj, "uses", &gc.Uses)

	var times []json.RawMessage
	if decodeField(obj, "times", &times) {
		for level, rt := range times {
			var t float32
			if decodeValue(rt, &t) {
				gc.Times[level] = t
			}
		}
	}
	return gc
}

// ParseToolCapabilities decodes capabilities from their JSON form.
func ParseToolCapabilities(s string) (ToolCapabilities, error) {
	var tc ToolCapabilities
	if err := json.Unmarshal([]byte(s), &tc); err != nil {
		return ToolCapabilities{}, fmt.Errorf("parse tool capabilities: %w", err)
	}
	return tc, nil
}

// String returns the JSON encoding of the capabilities.
func (tc ToolCapabilities) String() string {
	data, err := tc.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid tool capabilities: %v>", err)
	}
	return string(data)
}

// decodeObject parses data as a JSON object. A null root counts as not an
// object.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: found %s", ErrNotObject, typeErr.Value)
		}
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: found null", ErrNotObject)
	}
	return obj, nil
}

// decodeField decodes obj[key] into dst when present and of the right type.
func decodeField[T any](obj map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := obj[key]
	if !ok {
		return false
	}
	return decodeValue(raw, dst)
}

// decodeValue decodes raw into dst, leaving dst untouched on null or a type
// mismatch.
func decodeValue[T any](raw json.RawMessage, dst *T) bool {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}
