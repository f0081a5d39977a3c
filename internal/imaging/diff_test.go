package imaging

import (
	"testing"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

func TestDiff(t *testing.T) {
	before := pixel.Fill(10, 1, pixel.Black)
	after := before.Clone()
	after.Set(0, 0, pixel.White)
	after.Set(1, 0, pixel.FromBGRA(3, 3, 3, 255))

	res, err := Diff(before, after)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if res.TotalPixels != 10 {
		t.Errorf("TotalPixels: got %d, want 10", res.TotalPixels)
	}
	if res.PixelsChanged != 1 {
		t.Errorf("PixelsChanged: got %d, want 1", res.PixelsChanged)
	}
	if res.PixelsIdentical != 8 {
		t.Errorf("PixelsIdentical: got %d, want 8", res.PixelsIdentical)
	}
	if res.SimilarityScore != 0.9 {
		t.Errorf("SimilarityScore: got %g, want 0.9", res.SimilarityScore)
	}
	// (255 + 3) / 10
	if res.AverageColorDiff != 25.8 {
		t.Errorf("AverageColorDiff: got %g, want 25.8", res.AverageColorDiff)
	}
	if res.AlphaChanged {
		t.Error("AlphaChanged: got true, want false")
	}
}

func TestDiff_Alpha(t *testing.T) {
	before := pixel.Fill(2, 2, pixel.Black)
	after := before.Clone()
	after.Set(1, 1, pixel.Transparent)

	res, err := Diff(before, after)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if !res.AlphaChanged {
		t.Error("AlphaChanged: got false, want true")
	}
}

func TestDiff_SizeMismatch(t *testing.T) {
	if _, err := Diff(pixel.NewBuffer(2, 2), pixel.NewBuffer(3, 2)); err == nil {
		t.Error("Diff should fail for different sizes")
	}
}
