package unaryop

import (
	"errors"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// ErrInvalidArgument is wrapped by every constructor or mutator error caused by
// caller misuse (out-of-range channel, level count, gamma index, ...).
var ErrInvalidArgument = errors.New("invalid argument")

// Operator is a per-pixel color transform.
//
// The set of operators is closed: only the types declared in this package
// implement Operator. Use Apply, ApplyBulk and ApplyInPlace to run one.
type Operator interface {
	unaryOp()
}

func (Identity) unaryOp()                {}
func (Constant) unaryOp()                {}
func (BlendConstant) unaryOp()           {}
func (SetChannel) unaryOp()              {}
func (SetAlphaChannel) unaryOp()         {}
func (SetAlphaChannelTo255) unaryOp()    {}
func (Invert) unaryOp()                  {}
func (InvertWithAlpha) unaryOp()         {}
func (Desaturate) unaryOp()              {}
func (RedEyeRemove) unaryOp()            {}
func (*LuminosityCurve) unaryOp()        {}
func (*ChannelCurve) unaryOp()           {}
func (*Level) unaryOp()                  {}
func (*HueSaturationLightness) unaryOp() {}
func (*Posterize) unaryOp()              {}

// Apply transforms a single color. It is pure and total.
func Apply(op Operator, c pixel.Color) pixel.Color {
	switch o := op.(type) {
	case Identity:
		return c
	case Constant:
		return o.Color
	case BlendConstant:
		return o.apply(c)
	case SetChannel:
		return c.WithChannel(o.Channel, o.Value)
	case SetAlphaChannel:
		return c.WithA(o.Alpha)
	case SetAlphaChannelTo255:
		return c | 0xFF000000
	case Invert:
		return invert(c)
	case InvertWithAlpha:
		return ^c
	case Desaturate:
		return desaturate(c)
	case RedEyeRemove:
		return o.apply(c)
	case *LuminosityCurve:
		return o.apply(c)
	case *ChannelCurve:
		return o.apply(c)
	case *Level:
		return o.tables().apply(c)
	case *HueSaturationLightness:
		return o.apply(c)
	case *Posterize:
		return o.apply(c)
	default:
		return c
	}
}

// ApplyBulk writes Apply(op, src[i]) into dst[i] for every index present in
// both slices. dst and src may be the same slice.
func ApplyBulk(op Operator, dst, src []pixel.Color) {
	n := min(len(dst), len(src))
	dst, src = dst[:n], src[:n]

	switch o := op.(type) {
	case Identity:
		copy(dst, src)
	case Constant:
		for i := range dst {
			dst[i] = o.Color
		}
	case SetAlphaChannel:
		alpha := pixel.Color(o.Alpha) << 24
		for i, c := range src {
			dst[i] = c&0x00FFFFFF | alpha
		}
	case SetAlphaChannelTo255:
		for i, c := range src {
			dst[i] = c | 0xFF000000
		}
	case InvertWithAlpha:
		for i, c := range src {
			dst[i] = ^c
		}
	case Invert:
		for i, c := range src {
			dst[i] = invert(c)
		}
	case Desaturate:
		for i, c := range src {
			dst[i] = desaturate(c)
		}
	case *ChannelCurve:
		for i, c := range src {
			dst[i] = o.apply(c)
		}
	case *Level:
		// One snapshot for the whole call so a concurrent rebuild is never
		// observed halfway through a row.
		t := o.tables()
		for i, c := range src {
			dst[i] = t.apply(c)
		}
	case *Posterize:
		for i, c := range src {
			dst[i] = o.apply(c)
		}
	default:
		for i, c := range src {
			dst[i] = Apply(op, c)
		}
	}
}

// ApplyInPlace transforms every color of dst. It is equivalent to
// ApplyBulk(op, dst, dst).
func ApplyInPlace(op Operator, dst []pixel.Color) {
	switch op.(type) {
	case Identity:
		return
	default:
		ApplyBulk(op, dst, dst)
	}
}
