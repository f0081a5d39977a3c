// Package imaging loads, describes and encodes images for the MCP server.
//
// Files are decoded once into an ImageCache, which keeps both the decoded
// image.Image and its premultiplied BGRA pixel.Buffer. Render results are
// returned to clients as base64 PNG (Encode, EncodeRegion) and can be written
// back to disk with Save.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Color Representation
//
// SampleColor reports colors as stored: premultiplied BGRA components, a
// "#RRGGBBAA" hex string of the stored bytes, the intensity byte the
// operators use, and HSV of the premultiplied RGB.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Buffers returned by the
// cache are shared and must not be modified; the remaining functions only
// read their inputs.
package imaging
