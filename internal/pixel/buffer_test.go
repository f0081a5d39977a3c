package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	buf := NewBuffer(4, 3)
	require.Len(t, buf.Pix, 12)
	assert.Equal(t, image.Rect(0, 0, 4, 3), buf.Bounds())

	empty := NewBuffer(0, 10)
	assert.Empty(t, empty.Pix)
	assert.True(t, empty.Bounds().Empty())
}

func TestBuffer_RowAndSpan(t *testing.T) {
	buf := NewBuffer(3, 2)
	buf.Set(1, 1, White)

	row := buf.Row(1)
	require.Len(t, row, 3)
	assert.Equal(t, White, row[1])

	span := buf.Span(1, 1, 3)
	require.Len(t, span, 2)
	span[1] = Black
	assert.Equal(t, Black, buf.At(2, 1), "span shares storage")
}

func TestBuffer_Clone(t *testing.T) {
	buf := Fill(2, 2, White)
	cp := buf.Clone()
	cp.Set(0, 0, Black)

	assert.Equal(t, White, buf.At(0, 0))
	assert.True(t, buf.SameSize(cp))
}

func TestFromImage_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})
	src.Set(1, 0, color.RGBA{0, 255, 0, 255})
	src.Set(2, 1, color.RGBA{10, 20, 30, 128})

	buf := FromImage(src)
	require.Equal(t, 3, buf.Width)
	require.Equal(t, 2, buf.Height)

	assert.Equal(t, FromBGRA(0, 0, 255, 255), buf.At(0, 0))
	assert.Equal(t, FromBGRA(0, 255, 0, 255), buf.At(1, 0))
	assert.Equal(t, FromBGRA(30, 20, 10, 128), buf.At(2, 1))

	back := buf.ToRGBA()
	assert.Equal(t, src.Pix, back.Pix)
}

func TestFromImage_Premultiplies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{255, 255, 255, 128})

	c := FromImage(src).At(0, 0)
	assert.Equal(t, uint8(128), c.A())
	assert.LessOrEqual(t, c.R(), c.A())
	assert.LessOrEqual(t, c.G(), c.A())
	assert.LessOrEqual(t, c.B(), c.A())
}

func TestToRGBA_SaturatesChannelsAboveAlpha(t *testing.T) {
	buf := NewBuffer(3, 1)
	buf.Set(0, 0, FromBGRA(255, 255, 155, 127))
	buf.Set(1, 0, FromBGRA(0, 0, 200, 42))
	buf.Set(2, 0, FromBGRA(10, 20, 30, 0))

	img := buf.ToRGBA()
	assert.Equal(t, color.RGBA{127, 127, 127, 127}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{42, 0, 0, 42}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 0}, img.RGBAAt(2, 0))

	// Straight-alpha view of the first pixel is white.
	n := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{255, 255, 255, 127}, n)
}

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(6, 5, color.RGBA{1, 2, 3, 255})

	buf := FromImage(src)
	require.Equal(t, 2, buf.Width)
	assert.Equal(t, FromBGRA(3, 2, 1, 255), buf.At(1, 0))
}

func TestClipRegions(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 10)
	rois := []image.Rectangle{
		image.Rect(2, 2, 5, 5),
		image.Rect(8, 8, 20, 20),
		image.Rect(20, 20, 30, 30),
		image.Rect(5, 5, 2, 2),
	}

	got := ClipRegions(bounds, rois)
	assert.Equal(t, []image.Rectangle{
		image.Rect(2, 2, 5, 5),
		image.Rect(8, 8, 10, 10),
		image.Rect(2, 2, 5, 5),
	}, got)
}
