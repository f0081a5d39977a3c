package unaryop

import (
	"image"
	"math"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// Percentiles used by AutoLevel for the low and high samples.
const (
	autoLowFraction  = 0.005
	autoHighFraction = 0.995
)

// channelHistogram counts B, G and R values over a set of pixels.
type channelHistogram struct {
	counts [3][256]int64
	total  int64
}

func newChannelHistogram(buf *pixel.Buffer, rois []image.Rectangle) *channelHistogram {
	if len(rois) == 0 {
		rois = []image.Rectangle{buf.Bounds()}
	}
	h := &channelHistogram{}
	for _, r := range pixel.ClipRegions(buf.Bounds(), rois) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for _, c := range buf.Span(y, r.Min.X, r.Max.X) {
				h.counts[pixel.ChannelB][c.B()]++
				h.counts[pixel.ChannelG][c.G()]++
				h.counts[pixel.ChannelR][c.R()]++
				h.total++
			}
		}
	}
	return h
}

// percentile returns, per channel, the first value whose cumulative count
// exceeds fraction of the total.
func (h *channelHistogram) percentile(fraction float64) pixel.Color {
	out := pixel.Black
	limit := float64(h.total) * fraction
	for ch := 0; ch < 3; ch++ {
		var integral int64
		for v, n := range h.counts[ch] {
			integral += n
			if float64(integral) > limit {
				out = out.WithChannel(ch, uint8(v))
				break
			}
		}
	}
	return out
}

// mean returns the rounded per-channel mean.
func (h *channelHistogram) mean() pixel.Color {
	out := pixel.Black
	if h.total == 0 {
		return out
	}
	for ch := 0; ch < 3; ch++ {
		var sum int64
		for v, n := range h.counts[ch] {
			sum += int64(v) * n
		}
		out = out.WithChannel(ch, uint8(math.Round(float64(sum)/float64(h.total))))
	}
	return out
}

// AutoLevel calibrates a level from the pixels of buf inside rois (the whole
// buffer when rois is empty): the 0.5th percentile, the mean and the 99.5th
// percentile of each channel are fed to AutoLevelFromLoMdHi.
func AutoLevel(buf *pixel.Buffer, rois []image.Rectangle) *Level {
	h := newChannelHistogram(buf, rois)
	lo := h.percentile(autoLowFraction)
	md := h.mean()
	hi := h.percentile(autoHighFraction)
	pixel.Logger().Debug("auto level samples", "lo", lo.String(), "md", md.String(), "hi", hi.String())
	return AutoLevelFromLoMdHi(lo, md, hi)
}
