// Package unaryop implements per-pixel color operators.
//
// Every operator is applied through the same three functions:
//
//	c2 := unaryop.Apply(op, c)           // one color
//	unaryop.ApplyBulk(op, dst, src)      // dst[i] = Apply(op, src[i])
//	unaryop.ApplyInPlace(op, pixels)     // same as ApplyBulk(op, pixels, pixels)
//
// Operators are total: they never fail and always produce channel values in
// [0, 255]. Parameter validation happens in the constructors, which return an
// error wrapping ErrInvalidArgument on caller misuse.
//
// # Shared Definitions
//
// Intensity always means pixel.Color.IntensityByte (or its float form
// Intensity), and compositing alpha always means pixel.ComputeAlpha. Desaturate,
// LuminosityCurve, HueSaturationLightness and RedEyeRemove all rely on these,
// as does the frosted-glass effect in package effects.
//
// # Thread Safety
//
// All operators can be applied concurrently. Level is the only operator with
// mutators; renders read an immutable lookup-table snapshot while a mutation
// builds the next one.
package unaryop
