package imaging

import "image"

// Region is a rectangular area of an image as callers send it.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//
// Swapped corners are normalized; parts outside the image are clipped when the
// region is rendered.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns the region as a canonical image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Rectangles converts caller regions. An empty list means the whole image of
// the given bounds.
func Rectangles(regions []Region, bounds image.Rectangle) []image.Rectangle {
	if len(regions) == 0 {
		return []image.Rectangle{bounds}
	}
	out := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		out[i] = r.Rect()
	}
	return out
}
