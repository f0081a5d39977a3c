package effects

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
	"github.com/ironsheep/image-effects-mcp/internal/unaryop"
)

var (
	// ErrInvalidArgument is wrapped by effect constructors on caller misuse.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSizeMismatch is returned when source and destination differ in size.
	ErrSizeMismatch = errors.New("source and destination sizes differ")

	// ErrInPlace is returned when an effect that samples neighbors is asked to
	// render into its own source.
	ErrInPlace = errors.New("effect cannot render in place")
)

// Effect renders regions of a source buffer into a destination buffer.
//
// Render writes only destination pixels inside rois and reads only the
// source, so regions can be rendered in any order and on any goroutine.
// Regions outside the buffers are clipped; an empty list renders nothing.
type Effect interface {
	Name() string
	Render(dst, src *pixel.Buffer, rois []image.Rectangle)
}

// inPlaceRenderer is implemented by effects whose output pixel depends only
// on the source pixel at the same position.
type inPlaceRenderer interface {
	InPlace() bool
}

// UnaryEffect applies a per-pixel operator to every region.
type UnaryEffect struct {
	Op unaryop.Operator
}

// Name implements Effect.
func (e UnaryEffect) Name() string {
	return fmt.Sprintf("unary(%T)", e.Op)
}

// InPlace reports that dst may be the same buffer as src.
func (e UnaryEffect) InPlace() bool { return true }

// Render implements Effect.
func (e UnaryEffect) Render(dst, src *pixel.Buffer, rois []image.Rectangle) {
	bounds := src.Bounds().Intersect(dst.Bounds())
	for _, r := range pixel.ClipRegions(bounds, rois) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			unaryop.ApplyBulk(e.Op, dst.Span(y, r.Min.X, r.Max.X), src.Span(y, r.Min.X, r.Max.X))
		}
	}
}

// RenderParallel renders e over rois using the worker pool of
// github.com/anthonynsimon/bild/parallel (one worker per GOMAXPROCS).
//
// Regions are first split into disjoint single-row spans so that
// overlapping regions never make two workers write the same pixel. A nil or
// empty rois renders nothing.
func RenderParallel(e Effect, dst, src *pixel.Buffer, rois []image.Rectangle) error {
	spans, err := prepare(e, dst, src, rois)
	if err != nil || len(spans) == 0 {
		return err
	}

	start := time.Now()
	parallel.Line(len(spans), func(lo, hi int) {
		e.Render(dst, src, spans[lo:hi])
	})

	pixel.Logger().Debug("render complete",
		"effect", e.Name(),
		"mode", "parallel",
		"regions", len(rois),
		"spans", len(spans),
		"elapsed", time.Since(start))
	return nil
}

// Render is the single-goroutine form of RenderParallel. Spans are rendered
// top to bottom, left to right, so effects that draw random numbers from a
// seeded generator produce the same output on every call.
func Render(e Effect, dst, src *pixel.Buffer, rois []image.Rectangle) error {
	spans, err := prepare(e, dst, src, rois)
	if err != nil || len(spans) == 0 {
		return err
	}

	start := time.Now()
	e.Render(dst, src, spans)

	pixel.Logger().Debug("render complete",
		"effect", e.Name(),
		"mode", "sequential",
		"regions", len(rois),
		"spans", len(spans),
		"elapsed", time.Since(start))
	return nil
}

// prepare validates the buffers for e and returns the spans to render.
func prepare(e Effect, dst, src *pixel.Buffer, rois []image.Rectangle) ([]image.Rectangle, error) {
	if !dst.SameSize(src) {
		return nil, fmt.Errorf("%s: %dx%d into %dx%d: %w",
			e.Name(), src.Width, src.Height, dst.Width, dst.Height, ErrSizeMismatch)
	}
	if sharesStorage(dst, src) {
		if ip, ok := e.(inPlaceRenderer); !ok || !ip.InPlace() {
			return nil, fmt.Errorf("%s: %w", e.Name(), ErrInPlace)
		}
	}
	return disjointSpans(src.Bounds(), rois), nil
}

// WholeImage returns a region list covering all of buf.
func WholeImage(buf *pixel.Buffer) []image.Rectangle {
	return []image.Rectangle{buf.Bounds()}
}

func sharesStorage(a, b *pixel.Buffer) bool {
	if a == b {
		return true
	}
	return len(a.Pix) > 0 && len(b.Pix) > 0 && &a.Pix[0] == &b.Pix[0]
}

// disjointSpans clips rois to bounds and rewrites them as non-overlapping
// one-row rectangles, ordered by row then column. The covered pixel set is
// the union of the clipped regions.
func disjointSpans(bounds image.Rectangle, rois []image.Rectangle) []image.Rectangle {
	clipped := pixel.ClipRegions(bounds, rois)
	if len(clipped) == 0 {
		return nil
	}

	rows := make(map[int][][2]int)
	for _, r := range clipped {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			rows[y] = append(rows[y], [2]int{r.Min.X, r.Max.X})
		}
	}

	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Ints(ys)

	var spans []image.Rectangle
	for _, y := range ys {
		intervals := rows[y]
		sort.Slice(intervals, func(i, j int) bool { return intervals[i][0] < intervals[j][0] })

		cur := intervals[0]
		for _, iv := range intervals[1:] {
			if iv[0] <= cur[1] {
				cur[1] = max(cur[1], iv[1])
				continue
			}
			spans = append(spans, image.Rect(cur[0], y, cur[1], y+1))
			cur = iv
		}
		spans = append(spans, image.Rect(cur[0], y, cur[1], y+1))
	}
	return spans
}
