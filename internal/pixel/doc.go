// Package pixel defines the premultiplied BGRA color model and the caller-owned
// pixel buffers that the operators and effects of this module read and write.
//
// # Color Layout
//
// A Color is one uint32 holding four 8-bit channels:
//
//	bits  0-7   B (channel index 0)
//	bits  8-15  G (channel index 1)
//	bits 16-23  R (channel index 2)
//	bits 24-31  A (channel index 3)
//
// Channel and WithChannel address the bytes by that index, so code that
// loops over the color channels runs ch from 0 to 2.
//
// # Premultiplied Alpha
//
// B, G and R are stored already scaled by alpha, the same convention as
// image.RGBA. FromImage converts any decoded image into this form and ToRGBA
// converts back. Some operators deliberately write a color channel above
// alpha; ToRGBA saturates such channels at alpha, since image.RGBA cannot
// hold them. Intensity and IntensityByte weigh the stored values with the
// BT.601 coefficients and are the only luma definition in the module.
//
// # Buffers and Regions
//
// A Buffer is a row-major grid of Colors with no padding between rows. The
// core never resizes a buffer. Regions of interest are image.Rectangle
// values with an exclusive Max, and ClipRegions trims them to a buffer.
//
// # Logging
//
// Logger returns the *slog.Logger shared by this package, unaryop and
// effects. It discards everything until SetLogger installs a handler.
package pixel
