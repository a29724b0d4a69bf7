package tool

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// BlendMode selects how the wear bar colour varies between stops.
type BlendMode int

const (
	// BlendConstant uses the colour of the nearest stop at or below the
	// current durability.
	BlendConstant BlendMode = iota
	// BlendLinear interpolates between neighbouring stops.
	BlendLinear
)

var blendModeNames = map[BlendMode]string{
	BlendConstant: "constant",
	BlendLinear:   "linear",
}

// String returns the JSON name of the blend mode.
func (b BlendMode) String() string {
	if name, ok := blendModeNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BlendMode(%d)", int(b))
}

// ParseBlendMode maps a JSON name back to a BlendMode.
func ParseBlendMode(s string) (BlendMode, bool) {
	for mode, name := range blendModeNames {
		if name == s {
			return mode, true
		}
	}
	return 0, false
}

// WearBarParams describes the colour of an item's wear bar as a function of
// remaining durability in [0, 1].
type WearBarParams struct {
	ColorStops map[float32]Color
	Blend      BlendMode
}

type wearBarJSON struct {
	Blend      string           `json:"blend"`
	ColorStops map[string]Color `json:"color_stops"`
}

// MarshalJSON encodes the params with stops keyed by their decimal value.
func (w WearBarParams) MarshalJSON() ([]byte, error) {
	out := wearBarJSON{
		Blend:      w.Blend.String(),
		ColorStops: make(map[string]Color, len(w.ColorStops)),
	}
	for stop, c := range w.ColorStops {
		out.ColorStops[formatStop(stop)] = c
	}
	return json.Marshal(out)
}

// String returns the JSON encoding of the params.
func (w WearBarParams) String() string {
	data, err := w.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid wear bar params: %v>", err)
	}
	return string(data)
}

func formatStop(stop float32) string {
	return strconv.FormatFloat(float64(stop), 'f', -1, 32)
}

// ParseWearBarParams decodes params from their JSON form.
//
// Malformed JSON and non-object roots are errors. A well-formed object that
// does not describe a usable wear bar (missing or mistyped fields, unknown
// blend mode, a stop outside [0, 1], no parseable colour) yields ok=false
// with a nil error.
func ParseWearBarParams(s string) (params WearBarParams, ok bool, err error) {
	root, err := decodeObject([]byte(s))
	if err != nil {
		return WearBarParams{}, false, fmt.Errorf("parse wear bar params: %w", err)
	}

	var blendName string
	if !decodeField(root, "blend", &blendName) {
		return WearBarParams{}, false, nil
	}
	blend, known := ParseBlendMode(blendName)
	if !known {
		return WearBarParams{}, false, nil
	}

	var rawStops map[string]json.RawMessage
	if !decodeField(root, "color_stops", &rawStops) {
		return WearBarParams{}, false, nil
	}

	stops := make(map[float32]Color, len(rawStops))
	for key, raw := range rawStops {
		stop, err := strconv.ParseFloat(key, 32)
		if err != nil || math.IsNaN(stop) || stop < 0 || stop > 1 {
			return WearBarParams{}, false, nil
		}
		var colorString string
		if !decodeValue(raw, &colorString) {
			continue
		}
		c, err := ParseColor(colorString)
		if err != nil {
			continue
		}
		stops[float32(stop)] = c
	}
	if len(stops) == 0 {
		return WearBarParams{}, false, nil
	}

	return WearBarParams{ColorStops: stops, Blend: blend}, true, nil
}

// ColorAt returns the bar colour for durability d (1 = undamaged).
// Values below the first stop take its colour, values at or above the last
// stop take the last colour. With no stops the zero Color is returned.
func (w WearBarParams) ColorAt(d float32) Color {
	if len(w.ColorStops) == 0 {
		return Color{}
	}
	stops := slices.Sorted(maps.Keys(w.ColorStops))

	// First stop strictly greater than d.
	upper, _ := slices.BinarySearchFunc(stops, d, func(stop, target float32) int {
		if stop <= target {
			return -1
		}
		return 1
	})
	if upper == len(stops) {
		return w.ColorStops[stops[len(stops)-1]]
	}
	if upper == 0 {
		return w.ColorStops[stops[0]]
	}

	lowStop, highStop := stops[upper-1], stops[upper]
	low, high := w.ColorStops[lowStop], w.ColorStops[highStop]
	if w.Blend != BlendLinear {
		return low
	}
	progress := (d - lowStop) / (highStop - lowStop)
	return interpolate(low, high, progress)
}

// interpolate mixes a and b, returning a at t=0 and b at t=1.
func interpolate(a, b Color, t float32) Color {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(float32(x)*(1-t) + float32(y)*t)))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
