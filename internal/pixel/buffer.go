package pixel

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Buffer is a fixed-size, row-major grid of premultiplied BGRA colors.
//
// Buffers are owned by the caller. Nothing in this module resizes or
// reallocates Pix after construction.
type Buffer struct {
	Width  int
	Height int
	Pix    []Color
}

// NewBuffer allocates a zeroed (transparent) buffer.
// Non-positive dimensions produce an empty buffer.
func NewBuffer(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		return &Buffer{}
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
	}
}

// Fill creates a buffer where every pixel is c.
func Fill(width, height int, c Color) *Buffer {
	buf := NewBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = c
	}
	return buf
}

// Bounds returns the buffer rectangle with its origin at (0, 0).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At returns the pixel at (x, y). Coordinates must be inside Bounds.
func (b *Buffer) At(x, y int) Color {
	return b.Pix[y*b.Width+x]
}

// Set writes the pixel at (x, y). Coordinates must be inside Bounds.
func (b *Buffer) Set(x, y int, c Color) {
	b.Pix[y*b.Width+x] = c
}

// Row returns the pixels of row y as a slice sharing the buffer's storage.
func (b *Buffer) Row(y int) []Color {
	start := y * b.Width
	return b.Pix[start : start+b.Width : start+b.Width]
}

// Span returns pixels [x0, x1) of row y, sharing the buffer's storage.
func (b *Buffer) Span(y, x0, x1 int) []Color {
	start := y * b.Width
	return b.Pix[start+x0 : start+x1 : start+x1]
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]Color, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// SameSize reports whether b and other have identical dimensions.
func (b *Buffer) SameSize(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height
}

// FromImage converts any image into a premultiplied BGRA buffer.
// The result is re-based so that the image's Min corner becomes (0, 0).
func FromImage(img image.Image) *Buffer {
	rgba := clone.AsRGBA(img)
	bounds := rgba.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy())

	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		off := rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := range row {
			p := rgba.Pix[off : off+4 : off+4]
			row[x] = FromBGRA(p[2], p[1], p[0], p[3])
			off += 4
		}
	}
	return buf
}

// ToRGBA converts the buffer into an *image.RGBA. Both use premultiplied
// alpha. Operators such as SetAlphaChannel and InvertWithAlpha can leave a
// color channel above alpha, which image.RGBA cannot represent; those
// channels saturate at alpha, the brightest value the pixel can show.
func (b *Buffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	for y := 0; y < b.Height; y++ {
		off := img.PixOffset(0, y)
		for _, c := range b.Row(y) {
			a := c.A()
			img.Pix[off+0] = min(c.R(), a)
			img.Pix[off+1] = min(c.G(), a)
			img.Pix[off+2] = min(c.B(), a)
			img.Pix[off+3] = a
			off += 4
		}
	}
	return img
}

// ClipRegions intersects every region with bounds and drops the resulting
// empty rectangles. The input slice is not modified.
//
// Regions use the image.Rectangle convention: Min is inclusive, Max is
// exclusive.
func ClipRegions(bounds image.Rectangle, rois []image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(rois))
	for _, r := range rois {
		r = r.Canon().Intersect(bounds)
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}
