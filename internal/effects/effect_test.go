package effects

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
	"github.com/ironsheep/image-effects-mcp/internal/unaryop"
)

func TestUnaryEffect_Render(t *testing.T) {
	src := noiseBuffer(8, 8, 11)
	dst := pixel.Fill(8, 8, pixel.Transparent)

	e := UnaryEffect{Op: unaryop.Desaturate{}}
	roi := image.Rect(1, 1, 4, 7)
	e.Render(dst, src, []image.Rectangle{roi})

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := pixel.Transparent
			if image.Pt(x, y).In(roi) {
				want = unaryop.Apply(unaryop.Desaturate{}, src.At(x, y))
			}
			require.Equal(t, want, dst.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestRenderParallel_MatchesSequential(t *testing.T) {
	src := noiseBuffer(64, 48, 12)
	op, err := unaryop.NewPosterize(3, 4, 5)
	require.NoError(t, err)
	e := UnaryEffect{Op: op}

	rois := []image.Rectangle{
		image.Rect(0, 0, 40, 30),
		image.Rect(20, 10, 64, 48),
		image.Rect(5, 40, 10, 45),
	}

	seq := pixel.NewBuffer(64, 48)
	e.Render(seq, src, rois)

	par := pixel.NewBuffer(64, 48)
	require.NoError(t, RenderParallel(e, par, src, rois))

	assert.Equal(t, seq.Pix, par.Pix)
}

func TestRenderParallel_InPlaceUnary(t *testing.T) {
	buf := noiseBuffer(16, 16, 13)
	want := buf.Clone()
	unaryop.ApplyInPlace(unaryop.Invert{}, want.Pix)

	require.NoError(t, RenderParallel(UnaryEffect{Op: unaryop.Invert{}}, buf, buf, WholeImage(buf)))
	assert.Equal(t, want.Pix, buf.Pix)
}

func TestRenderParallel_FrostedGlassRejectsInPlace(t *testing.T) {
	buf := noiseBuffer(4, 4, 14)
	f, err := NewFrostedGlass(1)
	require.NoError(t, err)

	err = RenderParallel(f, buf, buf, WholeImage(buf))
	assert.True(t, errors.Is(err, ErrInPlace))

	alias := &pixel.Buffer{Width: buf.Width, Height: buf.Height, Pix: buf.Pix}
	err = RenderParallel(f, alias, buf, WholeImage(buf))
	assert.True(t, errors.Is(err, ErrInPlace))
}

func TestRenderParallel_SizeMismatch(t *testing.T) {
	err := RenderParallel(UnaryEffect{Op: unaryop.Identity{}}, pixel.NewBuffer(3, 3), pixel.NewBuffer(4, 3), nil)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestRenderParallel_EmptyRegions(t *testing.T) {
	src := noiseBuffer(4, 4, 15)
	dst := pixel.Fill(4, 4, pixel.White)

	require.NoError(t, RenderParallel(UnaryEffect{Op: unaryop.Constant{Color: pixel.Black}}, dst, src, nil))
	assert.Equal(t, pixel.Fill(4, 4, pixel.White).Pix, dst.Pix)
}

func TestRenderParallel_FrostedGlassSamplesWindow(t *testing.T) {
	const r = 3
	src := noiseBuffer(40, 30, 16)
	dst := pixel.NewBuffer(40, 30)

	f, err := NewFrostedGlass(r, WithSeed(17))
	require.NoError(t, err)
	rois := []image.Rectangle{image.Rect(0, 0, 25, 30), image.Rect(15, 0, 40, 30)}
	require.NoError(t, RenderParallel(f, dst, src, rois))

	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			require.True(t, windowCandidates(src, x, y, r)[dst.At(x, y)], "pixel (%d,%d)", x, y)
		}
	}
}

func TestDisjointSpans(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 10)
	rois := []image.Rectangle{
		image.Rect(0, 0, 4, 2),
		image.Rect(2, 1, 6, 3),
		image.Rect(8, 1, 12, 2),
	}

	got := disjointSpans(bounds, rois)
	assert.Equal(t, []image.Rectangle{
		image.Rect(0, 0, 4, 1),
		image.Rect(0, 1, 6, 2),
		image.Rect(8, 1, 10, 2),
		image.Rect(2, 2, 6, 3),
	}, got)

	assert.Nil(t, disjointSpans(bounds, nil))
	assert.Nil(t, disjointSpans(bounds, []image.Rectangle{image.Rect(20, 20, 30, 30)}))
}

func TestDisjointSpans_AdjacentMerge(t *testing.T) {
	got := disjointSpans(image.Rect(0, 0, 10, 1), []image.Rectangle{
		image.Rect(5, 0, 8, 1),
		image.Rect(0, 0, 5, 1),
	})
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 8, 1)}, got)
}

func TestRender_SeededIsReproducible(t *testing.T) {
	src := noiseBuffer(30, 20, 18)
	rois := []image.Rectangle{image.Rect(0, 0, 20, 20), image.Rect(10, 5, 30, 15)}

	run := func() *pixel.Buffer {
		f, err := NewFrostedGlass(2, WithSeed(99))
		require.NoError(t, err)
		dst := src.Clone()
		require.NoError(t, Render(f, dst, src, rois))
		return dst
	}

	assert.Equal(t, run().Pix, run().Pix)
}

func TestRender_Errors(t *testing.T) {
	buf := noiseBuffer(4, 4, 19)
	f, err := NewFrostedGlass(1)
	require.NoError(t, err)

	assert.True(t, errors.Is(Render(f, buf, buf, nil), ErrInPlace))
	assert.True(t, errors.Is(Render(f, pixel.NewBuffer(2, 2), buf, nil), ErrSizeMismatch))
	assert.NoError(t, Render(UnaryEffect{Op: unaryop.Invert{}}, buf, buf, nil))
}
