package unaryop

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// HueSaturationLightness adjusts saturation, rotates hue and blends toward
// white or black.
//
// The steps, in order:
//  1. Saturation: each channel moves toward the pixel's intensity with the
//     10-bit fixed-point factor satDelta*1024/100 (100 leaves it unchanged).
//  2. Hue: RGB -> HSV, hue += hueDelta degrees (wrapped into [0, 360)), HSV -> RGB.
//  3. Lightness: BlendConstant toward white (lightness > 0) or black
//     (lightness < 0) with alpha |lightness|*255/100.
//  4. The original alpha is restored.
type HueSaturationLightness struct {
	hueDelta  int
	satFactor int
	blend     Operator
}

// NewHueSaturationLightness validates the three deltas:
// hueDelta in [-180, 180], satDelta in [0, 200], lightness in [-100, 100].
func NewHueSaturationLightness(hueDelta, satDelta, lightness int) (*HueSaturationLightness, error) {
	if hueDelta < -180 || hueDelta > 180 {
		return nil, fmt.Errorf("hue delta %d out of range [-180,180]: %w", hueDelta, ErrInvalidArgument)
	}
	if satDelta < 0 || satDelta > 200 {
		return nil, fmt.Errorf("saturation %d out of range [0,200]: %w", satDelta, ErrInvalidArgument)
	}
	if lightness < -100 || lightness > 100 {
		return nil, fmt.Errorf("lightness %d out of range [-100,100]: %w", lightness, ErrInvalidArgument)
	}

	var blend Operator = Identity{}
	switch {
	case lightness > 0:
		blend = BlendConstant{Color: pixel.FromBGRA(255, 255, 255, uint8(lightness*255/100))}
	case lightness < 0:
		blend = BlendConstant{Color: pixel.FromBGRA(0, 0, 0, uint8(-lightness*255/100))}
	}

	return &HueSaturationLightness{
		hueDelta:  hueDelta,
		satFactor: satDelta * 1024 / 100,
		blend:     blend,
	}, nil
}

func (o *HueSaturationLightness) apply(c pixel.Color) pixel.Color {
	i := int(c.IntensityByte())
	b := pixel.ClampByte((i*1024 + (int(c.B())-i)*o.satFactor) >> 10)
	g := pixel.ClampByte((i*1024 + (int(c.G())-i)*o.satFactor) >> 10)
	r := pixel.ClampByte((i*1024 + (int(c.R())-i)*o.satFactor) >> 10)

	if o.hueDelta != 0 {
		h, s, v := colorful.Color{
			R: float64(r) / 255,
			G: float64(g) / 255,
			B: float64(b) / 255,
		}.Hsv()
		r, g, b = colorful.Hsv(wrapHue(h+float64(o.hueDelta)), s, v).Clamped().RGB255()
	}

	out := Apply(o.blend, pixel.FromBGRA(b, g, r, 255))
	return out.WithA(c.A())
}

// wrapHue folds an angle in degrees into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h
}
