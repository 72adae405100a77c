// Package bgremove converts a uniform backdrop color in a raster image into
// transparency so the result can be composited elsewhere.
//
// Two strategies are provided:
//   - RemoveFloodFill: corner-seeded flood fill that only clears backdrop
//     pixels connected to the image border.
//   - RemoveChromaKey: global ffmpeg colorkey pass, independent of
//     connectivity.
package bgremove

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an RGB triple with 8-bit channels. The alpha channel is never
// part of a key color; removal only writes alpha, it does not match on it.
type Color struct {
	R, G, B uint8
}

// White is the default key and backing color.
var White = Color{R: 255, G: 255, B: 255}

// ParseHexColor parses a 6-hex-digit color string. A leading "#" and
// surrounding whitespace are accepted; anything else is an ErrInvalidColor.
func ParseHexColor(s string) (Color, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(normalized) != 6 {
		return Color{}, fmt.Errorf("%w: got %q", ErrInvalidColor, s)
	}

	value, err := strconv.ParseUint(normalized, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: got %q", ErrInvalidColor, s)
	}

	return Color{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
	}, nil
}

// Hex returns the canonical uppercase 6-digit form without a leading "#".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer using the display form "#RRGGBB".
func (c Color) String() string {
	return "#" + c.Hex()
}

// Distance returns the per-channel absolute differences between c and o.
// The channels are deliberately not combined into a single scalar; the
// flood-fill tolerance test compares each channel independently.
func (c Color) Distance(o Color) (dr, dg, db int) {
	return absDiff(c.R, o.R), absDiff(c.G, o.G), absDiff(c.B, o.B)
}

// Within reports whether every channel of o is within threshold of c.
func (c Color) Within(o Color, threshold int) bool {
	dr, dg, db := c.Distance(o)
	return dr <= threshold && dg <= threshold && db <= threshold
}

// NRGBA returns the fully opaque color.NRGBA equivalent.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
