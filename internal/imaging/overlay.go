package imaging

import (
	"strconv"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// DefaultOutlineColor is the outline drawn by OutlineRegions when the caller
// does not pick one: opaque magenta, rarely present in photographs.
const DefaultOutlineColor = pixel.Color(0xFFFF00FF)

// OutlineRegions returns a copy of buf with a one-pixel outline around every
// region and the region's index printed inside its top-left corner. Regions
// are clipped to the image; an empty list outlines nothing.
func OutlineRegions(buf *pixel.Buffer, regions []Region, outline pixel.Color) *pixel.Buffer {
	out := buf.Clone()
	label := pixel.White
	background := pixel.Color(0xB4000000) // black at 180/255

	for i, reg := range regions {
		r := reg.Rect().Intersect(out.Bounds())
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			out.Set(x, r.Min.Y, outline)
			out.Set(x, r.Max.Y-1, outline)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			out.Set(r.Min.X, y, outline)
			out.Set(r.Max.X-1, y, outline)
		}
		drawLabel(out, r.Min.X+2, r.Min.Y+2, strconv.Itoa(i), label, background)
	}
	return out
}

// glyphs is a 3x5 pixel font for the digits used in region labels.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel prints text at (x, y) over a filled background box. Pixels
// outside the buffer are skipped.
func drawLabel(buf *pixel.Buffer, x, y int, text string, fg, bg pixel.Color) {
	const charWidth, labelHeight = 4, 7
	bounds := buf.Bounds()
	set := func(px, py int, c pixel.Color) {
		if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
			buf.Set(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight-1; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, bit := range line {
					if bit == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
