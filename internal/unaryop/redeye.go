package unaryop

import (
	"fmt"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// RedEyeRemove darkens the red channel of strongly red, saturated pixels.
//
// A pixel qualifies when R - max(G, B) > tolerance and its HSV saturation,
// on a 0..255 scale, is above 100. Its red channel becomes
// 255 * intensity * saturation/100. Other pixels pass through.
type RedEyeRemove struct {
	tolerance  int
	saturation float64
}

// NewRedEyeRemove validates tolerance and saturation, both in [0, 100].
func NewRedEyeRemove(tolerance, saturation int) (RedEyeRemove, error) {
	if tolerance < 0 || tolerance > 100 {
		return RedEyeRemove{}, fmt.Errorf("tolerance %d out of range [0,100]: %w", tolerance, ErrInvalidArgument)
	}
	if saturation < 0 || saturation > 100 {
		return RedEyeRemove{}, fmt.Errorf("saturation %d out of range [0,100]: %w", saturation, ErrInvalidArgument)
	}
	return RedEyeRemove{tolerance: tolerance, saturation: float64(saturation) / 100}, nil
}

func (o RedEyeRemove) apply(c pixel.Color) pixel.Color {
	difference := int(c.R()) - int(max(c.G(), c.B()))
	if difference <= o.tolerance || hsvSaturation(c) <= 100 {
		return c
	}
	red := pixel.ClampByte(int(255 * c.Intensity() * o.saturation))
	return pixel.FromBGRA(c.B(), c.G(), red, c.A())
}

// hsvSaturation returns the HSV saturation of c scaled to 0..255.
func hsvSaturation(c pixel.Color) int {
	r := float64(c.R()) / 255
	g := float64(c.G()) / 255
	b := float64(c.B()) / 255

	hi := max(r, g, b)
	lo := min(r, g, b)
	delta := hi - lo
	if hi == 0 || delta == 0 {
		return 0
	}
	return int(delta / hi * 255)
}
