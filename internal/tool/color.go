package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidColor is returned by ParseColor for unsupported colour strings.
var ErrInvalidColor = errors.New("tool: invalid color string")

// Color is an 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// ParseColor parses "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA" (hex digits in
// either case). A missing alpha component means opaque.
func ParseColor(s string) (Color, error) {
	if len(s) < 2 || s[0] != '#' {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	hex := s[1:]

	var digits []uint8
	switch len(hex) {
	case 3, 4:
		for i := 0; i < len(hex); i++ {
			v, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			digits = append(digits, uint8(v)*0x11)
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
			}
			digits = append(digits, uint8(v))
		}
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c := Color{R: digits[0], G: digits[1], B: digits[2], A: 0xff}
	if len(digits) == 4 {
		c.A = digits[3]
	}
	return c, nil
}

// String returns "#rrggbb", or "#rrggbbaa" when the colour is not opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalJSON encodes the colour as its hex string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a hex colour string.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
