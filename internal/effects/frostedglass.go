package effects

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// Frosted-glass radius bounds.
const (
	MinFrostedGlassAmount = 0
	MaxFrostedGlassAmount = 10
)

// FrostedGlass replaces every pixel by the average color of a randomly chosen
// intensity bucket of its neighborhood.
//
// For a destination pixel (x, y) and radius r = Amount, the window is
// [x-r, x+r] x [y-r, y+r] clamped to the source. Every window pixel is
// bucketed by its intensity byte; one window pixel is drawn uniformly at
// random and the output is the per-channel floor average of all pixels in
// that pixel's bucket. The output therefore depends only on the source.
//
// # Randomness
//
// One generator is shared by every Render call on the same FrostedGlass and
// guarded by a mutex held only for the draw. With WithSeed and a sequential
// render (one goroutine, fixed ROI order) output is reproducible. Parallel
// renders interleave draws in scheduling order and are not reproducible.
type FrostedGlass struct {
	amount int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a FrostedGlass.
type Option func(*FrostedGlass)

// WithSeed seeds the shared generator for reproducible renders.
func WithSeed(seed uint64) Option {
	return func(f *FrostedGlass) {
		f.rng = rand.New(rand.NewPCG(seed, seed^pcgStream))
	}
}

// pcgStream decorrelates the two PCG state words derived from one seed.
const pcgStream = 0xDA3E39CB94B95BDB

// NewFrostedGlass creates the effect with the given radius in
// [MinFrostedGlassAmount, MaxFrostedGlassAmount].
func NewFrostedGlass(amount int, opts ...Option) (*FrostedGlass, error) {
	if amount < MinFrostedGlassAmount || amount > MaxFrostedGlassAmount {
		return nil, fmt.Errorf("frosted glass amount %d out of range [%d,%d]: %w",
			amount, MinFrostedGlassAmount, MaxFrostedGlassAmount, ErrInvalidArgument)
	}
	f := &FrostedGlass{amount: amount}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		WithSeed(uint64(time.Now().UnixNano()))(f)
	}
	return f, nil
}

// Amount returns the sampling radius.
func (f *FrostedGlass) Amount() int {
	return f.amount
}

// Name implements Effect.
func (f *FrostedGlass) Name() string {
	return "frosted_glass"
}

// Render implements Effect. dst must not share storage with src.
func (f *FrostedGlass) Render(dst, src *pixel.Buffer, rois []image.Rectangle) {
	r := f.amount
	h := newHistogram(r)
	bounds := src.Bounds().Intersect(dst.Bounds())

	for _, roi := range pixel.ClipRegions(bounds, rois) {
		for y := roi.Min.Y; y < roi.Max.Y; y++ {
			top := max(y-r, 0)
			bottom := min(y+r+1, src.Height)
			out := dst.Row(y)

			for x := roi.Min.X; x < roi.Max.X; x++ {
				left := max(x-r, 0)
				right := min(x+r+1, src.Width)

				h.reset()
				for j := top; j < bottom; j++ {
					for _, c := range src.Span(j, left, right) {
						h.add(c)
					}
				}
				out[x] = h.bucketAverage(f.draw(len(h.visited)))
			}
		}
	}
}

// draw returns a uniform index in [0, n). It is the only synchronized step.
func (f *FrostedGlass) draw(n int) int {
	f.mu.Lock()
	v := f.rng.IntN(n)
	f.mu.Unlock()
	return v
}

// histogram is the per-pixel scratch space of FrostedGlass. One is allocated
// per Render call and reused for every pixel of that call.
type histogram struct {
	count   [256]uint32
	sumB    [256]uint32
	sumG    [256]uint32
	sumR    [256]uint32
	sumA    [256]uint32
	visited []uint8
}

func newHistogram(radius int) *histogram {
	side := 2*radius + 1
	return &histogram{visited: make([]uint8, 0, side*side)}
}

// reset clears only the buckets touched since the previous reset.
func (h *histogram) reset() {
	for _, i := range h.visited {
		h.count[i] = 0
		h.sumB[i] = 0
		h.sumG[i] = 0
		h.sumR[i] = 0
		h.sumA[i] = 0
	}
	h.visited = h.visited[:0]
}

func (h *histogram) add(c pixel.Color) {
	i := c.IntensityByte()
	h.visited = append(h.visited, i)
	h.count[i]++
	h.sumB[i] += uint32(c.B())
	h.sumG[i] += uint32(c.G())
	h.sumR[i] += uint32(c.R())
	h.sumA[i] += uint32(c.A())
}

// bucketAverage returns the floor average of the bucket holding the
// visited pixel at index idx.
func (h *histogram) bucketAverage(idx int) pixel.Color {
	i := h.visited[idx]
	n := h.count[i]
	return pixel.FromBGRA(
		uint8(h.sumB[i]/n),
		uint8(h.sumG[i]/n),
		uint8(h.sumR[i]/n),
		uint8(h.sumA[i]/n),
	)
}
