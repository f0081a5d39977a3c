package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// changeThreshold is the mean per-channel difference above which a pixel is
// counted as changed.
const changeThreshold = 10

// DiffResult summarizes how much a render changed an image.
type DiffResult struct {
	TotalPixels      int     `json:"total_pixels"`
	PixelsChanged    int     `json:"pixels_changed"`
	PixelsIdentical  int     `json:"pixels_identical"`
	SimilarityScore  float64 `json:"similarity_score"`
	AverageColorDiff float64 `json:"average_color_diff"`
	AlphaChanged     bool    `json:"alpha_changed"`
}

// Diff compares two buffers of the same size pixel by pixel.
//
// A pixel counts as changed when the mean absolute difference of its B, G and
// R channels exceeds changeThreshold; PixelsIdentical counts exact matches of
// all four channels.
func Diff(before, after *pixel.Buffer) (*DiffResult, error) {
	if !before.SameSize(after) {
		return nil, fmt.Errorf("cannot compare %dx%d with %dx%d",
			before.Width, before.Height, after.Width, after.Height)
	}

	res := &DiffResult{TotalPixels: len(before.Pix)}
	if res.TotalPixels == 0 {
		res.SimilarityScore = 1
		return res, nil
	}

	var totalColorDiff float64
	for i, a := range before.Pix {
		b := after.Pix[i]
		if a == b {
			res.PixelsIdentical++
			continue
		}
		if a.A() != b.A() {
			res.AlphaChanged = true
		}
		diff := float64(absDiff(a.B(), b.B())+absDiff(a.G(), b.G())+absDiff(a.R(), b.R())) / 3
		totalColorDiff += diff
		if diff > changeThreshold {
			res.PixelsChanged++
		}
	}

	similarity := 1 - float64(res.PixelsChanged)/float64(res.TotalPixels)
	res.SimilarityScore = math.Round(similarity*1000) / 1000
	res.AverageColorDiff = math.Round(totalColorDiff/float64(res.TotalPixels)*100) / 100
	return res, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
