package unaryop

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// Gamma bounds enforced by SetGamma and auto-calibration.
const (
	MinGamma = 0.1
	MaxGamma = 10.0
)

// Level is a tone-mapping ChannelCurve driven by input/output ranges and a
// gamma per color channel.
//
// For each of B, G, R (channel indices 0..2):
//
//	t = (x - inLow) / (inHigh - inLow)
//	t < 0  -> outLow
//	t >= 1 -> outHigh
//	else   -> clamp(outLow + (outHigh-outLow) * t^gamma, 0, 255)
//
// Every mutation rebuilds all three lookup tables into a new snapshot and
// publishes it atomically. Apply and ApplyBulk read one snapshot, so a render
// running while the configuration changes sees either the old or the new
// tables, never a mix. Mutators may be called from one goroutine at a time
// per Level; they serialize on an internal mutex.
type Level struct {
	mu      sync.Mutex
	inLow   pixel.Color
	inHigh  pixel.Color
	outLow  pixel.Color
	outHigh pixel.Color
	gamma   [3]float64

	valid atomic.Bool
	curve atomic.Pointer[ChannelCurve]
}

// NewLevel returns the identity level: input and output ranges black..white,
// gamma 1 on every channel.
func NewLevel() *Level {
	return NewLevelWith(pixel.Black, pixel.White, pixel.Black, pixel.White, [3]float64{1, 1, 1})
}

// NewLevelWith builds a level from explicit parameters. The values are taken
// as given; an impossible configuration is reported by Valid instead of an
// error.
func NewLevelWith(inLow, inHigh, outLow, outHigh pixel.Color, gamma [3]float64) *Level {
	l := &Level{
		inLow:   inLow,
		inHigh:  inHigh,
		outLow:  outLow,
		outHigh: outHigh,
		gamma:   gamma,
	}
	l.curve.Store(NewChannelCurve())
	l.mu.Lock()
	l.rebuildLocked()
	l.mu.Unlock()
	return l
}

// Valid reports whether the last rebuild succeeded. When false, the tables of
// the last valid configuration (identity for a level that was never valid)
// remain in use.
func (l *Level) Valid() bool {
	return l.valid.Load()
}

// Curve returns a copy of the lookup tables currently in use.
func (l *Level) Curve() ChannelCurve {
	return *l.tables()
}

func (l *Level) tables() *ChannelCurve {
	return l.curve.Load()
}

// ColorInLow returns the lower input bound.
func (l *Level) ColorInLow() pixel.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inLow
}

// ColorInHigh returns the upper input bound.
func (l *Level) ColorInHigh() pixel.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inHigh
}

// ColorOutLow returns the lower output bound.
func (l *Level) ColorOutLow() pixel.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outLow
}

// ColorOutHigh returns the upper output bound.
func (l *Level) ColorOutHigh() pixel.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outHigh
}

// SetColorInLow sets the lower input bound. A channel at 255 is lowered to
// 254, and the paired upper bound is raised when it would not stay above.
func (l *Level) SetColorInLow(c pixel.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, l.inHigh = clampLow(c, l.inHigh)
	l.inLow = c
	l.rebuildLocked()
}

// SetColorInHigh sets the upper input bound. A channel at 0 is raised to 1,
// and the paired lower bound is lowered when it would not stay below.
func (l *Level) SetColorInHigh(c pixel.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, l.inLow = clampHigh(c, l.inLow)
	l.inHigh = c
	l.rebuildLocked()
}

// SetColorOutLow sets the lower output bound, with the same pairing rules as
// SetColorInLow.
func (l *Level) SetColorOutLow(c pixel.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, l.outHigh = clampLow(c, l.outHigh)
	l.outLow = c
	l.rebuildLocked()
}

// SetColorOutHigh sets the upper output bound, with the same pairing rules as
// SetColorInHigh.
func (l *Level) SetColorOutHigh(c pixel.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, l.outLow = clampHigh(c, l.outLow)
	l.outHigh = c
	l.rebuildLocked()
}

// Gamma returns the gamma of a color channel (0=B, 1=G, 2=R).
func (l *Level) Gamma(index int) (float64, error) {
	if index < 0 || index > 2 {
		return 0, fmt.Errorf("gamma index %d out of range [0,2]: %w", index, ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gamma[index], nil
}

// SetGamma sets the gamma of a color channel, clamped to [MinGamma, MaxGamma].
func (l *Level) SetGamma(index int, gamma float64) error {
	if index < 0 || index > 2 {
		return fmt.Errorf("gamma index %d out of range [0,2]: %w", index, ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gamma[index] = clampFloat(gamma, MinGamma, MaxGamma)
	l.rebuildLocked()
	return nil
}

// Map evaluates the forward formula for one channel without the lookup table.
func (l *Level) Map(x float64, channel int) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mapLocked(x, channel)
}

func (l *Level) mapLocked(x float64, ch int) float64 {
	inLow := float64(l.inLow.Channel(ch))
	inHigh := float64(l.inHigh.Channel(ch))
	outLow := float64(l.outLow.Channel(ch))
	outHigh := float64(l.outHigh.Channel(ch))

	v := x - inLow
	if v < 0 {
		return outLow
	}
	if x >= inHigh {
		return outHigh
	}
	return clampFloat(outLow+(outHigh-outLow)*math.Pow(v/(inHigh-inLow), l.gamma[ch]), 0, 255)
}

// UnApply inverts the mapping for a target color. For each channel it returns
// the input value producing after, and the local slope d(before)/d(after).
// Slopes that evaluate to infinity or NaN are reported as 0.
func (l *Level) UnApply(after pixel.Color) (before, slope [3]float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ch := 0; ch < 3; ch++ {
		inLow := float64(l.inLow.Channel(ch))
		inHigh := float64(l.inHigh.Channel(ch))
		outLow := float64(l.outLow.Channel(ch))
		outHigh := float64(l.outHigh.Channel(ch))

		span := outHigh - outLow
		if span <= 0 || l.gamma[ch] <= 0 {
			before[ch] = inLow
			continue
		}

		u := clampFloat((float64(after.Channel(ch))-outLow)/span, 0, 1)
		inv := 1 / l.gamma[ch]
		before[ch] = inLow + (inHigh-inLow)*math.Pow(u, inv)

		s := (inHigh - inLow) / span * inv * math.Pow(u, inv-1)
		if math.IsInf(s, 0) || math.IsNaN(s) {
			s = 0
		}
		slope[ch] = s
	}
	return before, slope
}

// rebuildLocked recomputes every table into a fresh snapshot. l.mu must be held.
func (l *Level) rebuildLocked() {
	next := &ChannelCurve{}
	for ch := 0; ch < 3; ch++ {
		if l.outHigh.Channel(ch) < l.outLow.Channel(ch) ||
			l.inHigh.Channel(ch) <= l.inLow.Channel(ch) ||
			l.gamma[ch] < 0 || math.IsNaN(l.gamma[ch]) {
			l.valid.Store(false)
			pixel.Logger().Warn("level: invalid configuration",
				"channel", ch,
				"in_low", l.inLow.Channel(ch), "in_high", l.inHigh.Channel(ch),
				"out_low", l.outLow.Channel(ch), "out_high", l.outHigh.Channel(ch),
				"gamma", l.gamma[ch])
			return
		}
		table := next.table(ch)
		for x := range table {
			table[x] = uint8(l.mapLocked(float64(x), ch))
		}
	}
	l.curve.Store(next)
	l.valid.Store(true)
	pixel.Logger().Debug("level: lookup tables rebuilt")
}

// clampLow keeps every color channel of low below 255 and pushes high up so
// that high > low holds. Alpha is carried as given.
func clampLow(low, high pixel.Color) (pixel.Color, pixel.Color) {
	for ch := 0; ch < 3; ch++ {
		v := low.Channel(ch)
		if v == 255 {
			v = 254
			low = low.WithChannel(ch, v)
		}
		if high.Channel(ch) < v+1 {
			high = high.WithChannel(ch, v+1)
		}
	}
	return low, high
}

// clampHigh keeps every color channel of high above 0 and pushes low down so
// that high > low holds.
func clampHigh(high, low pixel.Color) (pixel.Color, pixel.Color) {
	for ch := 0; ch < 3; ch++ {
		v := high.Channel(ch)
		if v == 0 {
			v = 1
			high = high.WithChannel(ch, v)
		}
		if low.Channel(ch) > v-1 {
			low = low.WithChannel(ch, v-1)
		}
	}
	return high, low
}

// AutoLevelFromLoMdHi calibrates a level from low, mid and high samples.
//
// Per channel, when lo < md < hi the gamma is chosen so that md lands in the
// middle of the output range: gamma = ln(0.5) / ln((md-lo)/(hi-lo)), clamped
// to [MinGamma, MaxGamma]. Otherwise gamma is 1. The input range is lo..hi and
// the output range black..white.
//
// The ratio (md-lo)/(hi-lo) lies in (0, 1), so the logarithm is negative and
// gamma is positive; with the ratio inverted every gamma would be negative.
// This is the gamma that solves ((md-lo)/(hi-lo))^gamma = 0.5.
func AutoLevelFromLoMdHi(lo, md, hi pixel.Color) *Level {
	var gamma [3]float64
	for ch := 0; ch < 3; ch++ {
		l, m, h := float64(lo.Channel(ch)), float64(md.Channel(ch)), float64(hi.Channel(ch))
		if l < m && m < h {
			gamma[ch] = clampFloat(math.Log(0.5)/math.Log((m-l)/(h-l)), MinGamma, MaxGamma)
		} else {
			gamma[ch] = 1
		}
	}
	return NewLevelWith(lo, hi, pixel.Black, pixel.White, gamma)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
