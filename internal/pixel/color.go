package pixel

import (
	"fmt"
	"strconv"
)

// Color is a 32-bit packed BGRA pixel.
//
// Byte layout, least significant first:
//   - bits 0-7: Blue
//   - bits 8-15: Green
//   - bits 16-23: Red
//   - bits 24-31: Alpha
//
// Colors held in a Buffer are alpha-premultiplied (R, G, B <= A). Operators that
// depend on that convention (Invert, compositing) document it.
type Color uint32

// Channel indices used by Channel and WithChannel.
const (
	ChannelB = 0
	ChannelG = 1
	ChannelR = 2
	ChannelA = 3
)

// Commonly used colors.
const (
	Transparent Color = 0
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
)

// FromBGRA packs four 8-bit components into a Color.
func FromBGRA(b, g, r, a uint8) Color {
	return Color(uint32(b) | uint32(g)<<8 | uint32(r)<<16 | uint32(a)<<24)
}

// FromBGRAClamped packs four integer components, clamping each to [0, 255].
func FromBGRAClamped(b, g, r, a int) Color {
	return FromBGRA(ClampByte(b), ClampByte(g), ClampByte(r), ClampByte(a))
}

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16) }

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c >> 24) }

// WithA returns c with its alpha byte replaced. The RGB bits are untouched.
func (c Color) WithA(a uint8) Color {
	return c&0x00FFFFFF | Color(a)<<24
}

// Channel returns the component at index i (ChannelB..ChannelA).
// Indices outside 0..3 return 0.
func (c Color) Channel(i int) uint8 {
	if i < 0 || i > 3 {
		return 0
	}
	return uint8(c >> (8 * uint(i)))
}

// WithChannel returns c with the component at index i replaced.
// Indices outside 0..3 return c unchanged.
func (c Color) WithChannel(i int, v uint8) Color {
	if i < 0 || i > 3 {
		return c
	}
	shift := 8 * uint(i)
	return c&^(0xFF<<shift) | Color(v)<<shift
}

// IntensityByte returns the perceptual brightness of c as a byte.
//
// It uses the ITU-R BT.601 weights (0.114 B + 0.587 G + 0.299 R) in 16-bit
// fixed point. This is the only luma definition used by the operators and
// effects of this module.
func (c Color) IntensityByte() uint8 {
	return uint8((7471*uint32(c.B()) + 38470*uint32(c.G()) + 19595*uint32(c.R())) >> 16)
}

// Intensity returns the BT.601 brightness of c in [0, 1].
func (c Color) Intensity() float64 {
	return (0.114*float64(c.B()) + 0.587*float64(c.G()) + 0.299*float64(c.R())) / 255
}

// Hex returns the color as "#RRGGBBAA".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R(), c.G(), c.B(), c.A())
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("BGRA(%d,%d,%d,%d)", c.B(), c.G(), c.R(), c.A())
}

// ComputeAlpha returns the alpha of compositing a layer with alpha ra over a
// layer with alpha la: la + ra - la*ra/255.
func ComputeAlpha(la, ra uint8) uint8 {
	l, r := int(la), int(ra)
	return ClampByte(l + r - l*r/255)
}

// ClampByte constrains v to [0, 255].
func ClampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
// Six-digit colors are opaque.
//
// The components are taken as written; callers that feed the result into a
// premultiplied Buffer should use Premultiply.
func ParseHex(hex string) (Color, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r, g, b = uint8(val>>16), uint8(val>>8), uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r, g, b, a = uint8(val>>24), uint8(val>>16), uint8(val>>8), uint8(val)
	default:
		return 0, fmt.Errorf("invalid hex color length %d", len(hex))
	}
	return FromBGRA(b, g, r, a), nil
}

// Premultiply scales the RGB components of a straight-alpha color by its alpha.
func Premultiply(c Color) Color {
	a := uint32(c.A())
	if a == 255 {
		return c
	}
	return FromBGRA(
		uint8(uint32(c.B())*a/255),
		uint8(uint32(c.G())*a/255),
		uint8(uint32(c.R())*a/255),
		uint8(a),
	)
}
