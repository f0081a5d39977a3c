package unaryop

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// Posterize reduces each color channel to a fixed number of levels.
// Alpha is kept.
type Posterize struct {
	levels [3][256]uint8 // indexed by pixel.ChannelB..pixel.ChannelR
}

// NewPosterize builds the per-channel maps. Each level count must be in
// [1, 256]; 256 is the identity, 2 maps to {0, 255}.
func NewPosterize(red, green, blue int) (*Posterize, error) {
	p := &Posterize{}
	for _, ch := range []struct {
		index int
		count int
		name  string
	}{
		{pixel.ChannelR, red, "red"},
		{pixel.ChannelG, green, "green"},
		{pixel.ChannelB, blue, "blue"},
	} {
		if ch.count < 1 || ch.count > 256 {
			return nil, fmt.Errorf("%s level count %d out of range [1,256]: %w", ch.name, ch.count, ErrInvalidArgument)
		}
		p.levels[ch.index] = posterizeLevels(ch.count)
	}
	return p, nil
}

// posterizeLevels spreads the 256 inputs over count steps with an integer
// accumulator. The resulting distribution is not a linear scale: keep it.
func posterizeLevels(count int) [256]uint8 {
	steps := make([]uint8, count)
	for i := 1; i < count; i++ {
		steps[i] = uint8(math.Round(255 * float64(i) / float64(count-1)))
	}

	var levels [256]uint8
	step, acc := 0, 0
	for i := range levels {
		levels[i] = steps[step]
		acc += count
		if acc > 255 {
			acc -= 255
			step++
		}
	}
	return levels
}

func (o *Posterize) apply(c pixel.Color) pixel.Color {
	return pixel.FromBGRA(
		o.levels[pixel.ChannelB][c.B()],
		o.levels[pixel.ChannelG][c.G()],
		o.levels[pixel.ChannelR][c.R()],
		c.A(),
	)
}
