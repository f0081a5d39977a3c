// Package effects renders region-based image effects over pixel buffers.
//
// An Effect reads a source buffer and writes a destination buffer, one region
// of interest at a time. Two effects are provided:
//   - FrostedGlass: neighborhood sampling through a local intensity histogram
//     with a randomly drawn bucket per pixel
//   - UnaryEffect: any unaryop.Operator applied to every pixel of a region
//
// RenderParallel schedules the regions of one render call across a worker
// pool. Because every output pixel depends only on the source, regions and
// rows may be processed in any order. Render does the same work on the
// calling goroutine, which keeps seeded random effects reproducible.
package effects
