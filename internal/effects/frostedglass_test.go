package effects

import (
	"errors"
	"image"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// noiseBuffer fills a buffer with seeded premultiplied noise drawn from a
// small palette, so that several pixels share intensity buckets.
func noiseBuffer(width, height int, seed uint64) *pixel.Buffer {
	palette := []pixel.Color{
		pixel.FromBGRA(0, 0, 255, 255),
		pixel.FromBGRA(0, 255, 0, 255),
		pixel.FromBGRA(255, 0, 0, 255),
		pixel.FromBGRA(128, 128, 128, 255),
		pixel.FromBGRA(10, 20, 30, 40),
		pixel.FromBGRA(200, 180, 160, 255),
		pixel.White,
		pixel.Black,
	}
	rng := rand.New(rand.NewPCG(seed, 1))
	buf := pixel.NewBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = palette[rng.IntN(len(palette))]
	}
	return buf
}

// windowCandidates returns every bucket average that FrostedGlass may output
// at (x, y) for radius r.
func windowCandidates(src *pixel.Buffer, x, y, r int) map[pixel.Color]bool {
	h := newHistogram(r)
	for j := max(y-r, 0); j < min(y+r+1, src.Height); j++ {
		for i := max(x-r, 0); i < min(x+r+1, src.Width); i++ {
			h.add(src.At(i, j))
		}
	}
	out := make(map[pixel.Color]bool)
	for idx := range h.visited {
		out[h.bucketAverage(idx)] = true
	}
	return out
}

func TestNewFrostedGlass_Range(t *testing.T) {
	for _, amount := range []int{0, 1, 10} {
		f, err := NewFrostedGlass(amount)
		require.NoError(t, err)
		assert.Equal(t, amount, f.Amount())
	}
	for _, amount := range []int{-1, 11} {
		_, err := NewFrostedGlass(amount)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "amount %d", amount)
	}
}

func TestFrostedGlass_ZeroAmountIsIdentity(t *testing.T) {
	src := noiseBuffer(17, 11, 1)
	dst := pixel.NewBuffer(17, 11)

	f, err := NewFrostedGlass(0, WithSeed(3))
	require.NoError(t, err)
	f.Render(dst, src, WholeImage(src))

	assert.Equal(t, src.Pix, dst.Pix)
}

func TestFrostedGlass_UniformRegionIsNoop(t *testing.T) {
	c := pixel.FromBGRA(40, 80, 120, 200)
	src := pixel.Fill(20, 20, c)
	dst := pixel.NewBuffer(20, 20)

	f, err := NewFrostedGlass(MaxFrostedGlassAmount)
	require.NoError(t, err)
	f.Render(dst, src, WholeImage(src))

	assert.Equal(t, src.Pix, dst.Pix)
}

func TestFrostedGlass_OutputComesFromWindow(t *testing.T) {
	const r = 2
	src := noiseBuffer(12, 9, 2)
	dst := pixel.NewBuffer(12, 9)

	f, err := NewFrostedGlass(r, WithSeed(42))
	require.NoError(t, err)
	f.Render(dst, src, WholeImage(src))

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			got := dst.At(x, y)
			if !windowCandidates(src, x, y, r)[got] {
				t.Fatalf("pixel (%d,%d) = %v is not a bucket average of its window", x, y, got)
			}
		}
	}
}

func TestFrostedGlass_BucketAverageFloors(t *testing.T) {
	// Two pixels with the same intensity byte but different channels.
	a := pixel.FromBGRA(100, 100, 101, 255)
	b := pixel.FromBGRA(100, 100, 100, 255)
	require.Equal(t, a.IntensityByte(), b.IntensityByte())

	h := newHistogram(1)
	h.add(a)
	h.add(b)
	assert.Equal(t, pixel.FromBGRA(100, 100, 100, 255), h.bucketAverage(0))
	assert.Equal(t, h.bucketAverage(0), h.bucketAverage(1))
}

func TestFrostedGlass_SeedIsReproducible(t *testing.T) {
	src := noiseBuffer(16, 16, 5)

	render := func() []pixel.Color {
		f, err := NewFrostedGlass(3, WithSeed(99))
		require.NoError(t, err)
		dst := pixel.NewBuffer(16, 16)
		f.Render(dst, src, WholeImage(src))
		return dst.Pix
	}

	assert.Equal(t, render(), render())
}

func TestFrostedGlass_OnlyWritesRegions(t *testing.T) {
	src := noiseBuffer(10, 10, 6)
	sentinel := pixel.FromBGRA(1, 2, 3, 4)
	dst := pixel.Fill(10, 10, sentinel)

	f, err := NewFrostedGlass(1, WithSeed(1))
	require.NoError(t, err)

	roi := image.Rect(2, 3, 6, 5)
	f.Render(dst, src, []image.Rectangle{roi})

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := image.Pt(x, y).In(roi)
			if !inside {
				require.Equal(t, sentinel, dst.At(x, y), "pixel (%d,%d) outside the region", x, y)
			}
		}
	}
}

func TestFrostedGlass_EmptyRegionList(t *testing.T) {
	src := noiseBuffer(5, 5, 7)
	dst := pixel.Fill(5, 5, pixel.White)

	f, err := NewFrostedGlass(2)
	require.NoError(t, err)
	f.Render(dst, src, nil)

	assert.Equal(t, pixel.Fill(5, 5, pixel.White).Pix, dst.Pix)
}

func TestFrostedGlass_RegionsOutsideAreClipped(t *testing.T) {
	src := noiseBuffer(6, 6, 8)
	dst := pixel.NewBuffer(6, 6)

	f, err := NewFrostedGlass(0)
	require.NoError(t, err)
	f.Render(dst, src, []image.Rectangle{image.Rect(-5, -5, 100, 3)})

	for x := 0; x < 6; x++ {
		assert.Equal(t, src.At(x, 2), dst.At(x, 2))
		assert.Equal(t, pixel.Transparent, dst.At(x, 3))
	}
}

func TestFrostedGlass_ConcurrentRendersShareGenerator(t *testing.T) {
	const r = 2
	src := noiseBuffer(32, 32, 9)
	dst := pixel.NewBuffer(32, 32)

	f, err := NewFrostedGlass(r, WithSeed(10))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for band := 0; band < 4; band++ {
		wg.Add(1)
		go func(band int) {
			defer wg.Done()
			f.Render(dst, src, []image.Rectangle{image.Rect(0, band*8, 32, band*8+8)})
		}(band)
	}
	wg.Wait()

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			require.True(t, windowCandidates(src, x, y, r)[dst.At(x, y)], "pixel (%d,%d)", x, y)
		}
	}
}

func TestHistogram_ResetClearsVisitedBuckets(t *testing.T) {
	h := newHistogram(1)
	h.add(pixel.White)
	h.add(pixel.Black)
	h.reset()

	assert.Empty(t, h.visited)
	assert.Zero(t, h.count[255])
	assert.Zero(t, h.sumR[255])
	assert.Zero(t, h.count[0])
	assert.Equal(t, 9, cap(h.visited))
}
