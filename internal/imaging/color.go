package imaging

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// BGRAColor holds the four stored channels of a premultiplied pixel.
type BGRAColor struct {
	B uint8 `json:"b"`
	G uint8 `json:"g"`
	R uint8 `json:"r"`
	A uint8 `json:"a"`
}

// HSVColor is a color in hue, saturation, value space.
type HSVColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees
	S float64 `json:"s"` // Saturation: 0-100 percent
	V float64 `json:"v"` // Value: 0-100 percent
}

// ColorResult describes one pixel the way the operators see it.
type ColorResult struct {
	Hex       string    `json:"hex"`       // stored bytes as "#RRGGBBAA"
	BGRA      BGRAColor `json:"bgra"`      // premultiplied components
	Packed    uint32    `json:"packed"`    // B | G<<8 | R<<16 | A<<24
	Intensity uint8     `json:"intensity"` // luma byte used by every operator
	HSV       HSVColor  `json:"hsv"`       // of the premultiplied RGB
}

// SampleColor reads the pixel at (x, y). Coordinates are 0-based from the
// top-left corner.
func SampleColor(buf *pixel.Buffer, x, y int) (*ColorResult, error) {
	if x < 0 || x >= buf.Width || y < 0 || y >= buf.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	return DescribeColor(buf.At(x, y)), nil
}

// DescribeColor expands a color into every representation of ColorResult.
func DescribeColor(c pixel.Color) *ColorResult {
	h, s, v := colorful.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
	}.Hsv()

	return &ColorResult{
		Hex:       c.Hex(),
		BGRA:      BGRAColor{B: c.B(), G: c.G(), R: c.R(), A: c.A()},
		Packed:    uint32(c),
		Intensity: c.IntensityByte(),
		HSV:       HSVColor{H: round2(h), S: round2(s * 100), V: round2(v * 100)},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
