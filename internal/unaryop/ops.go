package unaryop

import (
	"fmt"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// Identity returns every color unchanged.
type Identity struct{}

// Constant replaces every color with Color.
type Constant struct {
	Color pixel.Color
}

// BlendConstant composites Color over each pixel using Color's alpha.
//
// Channels use the historical fixed-point approximation
//
//	out = (src*(255-a) + blend*a) / 256
//
// and the output alpha is the alpha-over of both alphas.
type BlendConstant struct {
	Color pixel.Color
}

func (o BlendConstant) apply(c pixel.Color) pixel.Color {
	a := int(o.Color.A())
	inv := 255 - a
	b := (int(c.B())*inv + int(o.Color.B())*a) / 256
	g := (int(c.G())*inv + int(o.Color.G())*a) / 256
	r := (int(c.R())*inv + int(o.Color.R())*a) / 256
	return pixel.FromBGRA(uint8(b), uint8(g), uint8(r), pixel.ComputeAlpha(c.A(), o.Color.A()))
}

// SetChannel overwrites one channel (pixel.ChannelB..pixel.ChannelA) with Value.
type SetChannel struct {
	Channel int
	Value   uint8
}

// NewSetChannel validates the channel index.
func NewSetChannel(channel int, value uint8) (SetChannel, error) {
	if channel < 0 || channel > 3 {
		return SetChannel{}, fmt.Errorf("channel index %d out of range [0,3]: %w", channel, ErrInvalidArgument)
	}
	return SetChannel{Channel: channel, Value: value}, nil
}

// SetAlphaChannel replaces the alpha byte, leaving the RGB bits untouched.
type SetAlphaChannel struct {
	Alpha uint8
}

// SetAlphaChannelTo255 makes every pixel opaque without touching RGB.
type SetAlphaChannelTo255 struct{}

// Invert inverts R, G and B against the pixel's own alpha (channel' = A - channel),
// which is the correct inversion for premultiplied colors. Alpha is kept.
// Invert is its own inverse only for opaque pixels.
type Invert struct{}

func invert(c pixel.Color) pixel.Color {
	a := int(c.A())
	return pixel.FromBGRAClamped(a-int(c.B()), a-int(c.G()), a-int(c.R()), a)
}

// InvertWithAlpha inverts all four channels (channel' = 255 - channel).
type InvertWithAlpha struct{}

// Desaturate replaces R, G and B with the pixel's intensity byte.
type Desaturate struct{}

func desaturate(c pixel.Color) pixel.Color {
	i := c.IntensityByte()
	return pixel.FromBGRA(i, i, i, c.A())
}
