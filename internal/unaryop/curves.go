package unaryop

import "github.com/ironsheep/image-effects-mcp/internal/pixel"

// LuminosityCurve remaps the intensity of each pixel through Curve and shifts
// R, G and B by the same difference, clamped. Alpha is kept.
type LuminosityCurve struct {
	Curve [256]uint8
}

// NewLuminosityCurve returns a curve initialized to the identity.
func NewLuminosityCurve() *LuminosityCurve {
	lc := &LuminosityCurve{}
	lc.Curve = identityTable()
	return lc
}

func (o *LuminosityCurve) apply(c pixel.Color) pixel.Color {
	lumi := c.IntensityByte()
	diff := int(o.Curve[lumi]) - int(lumi)
	return pixel.FromBGRAClamped(int(c.B())+diff, int(c.G())+diff, int(c.R())+diff, int(c.A()))
}

// ChannelCurve maps B, G and R through three independent tables. Alpha is kept.
type ChannelCurve struct {
	CurveB [256]uint8
	CurveG [256]uint8
	CurveR [256]uint8
}

// NewChannelCurve returns identity tables for all three channels.
func NewChannelCurve() *ChannelCurve {
	id := identityTable()
	return &ChannelCurve{CurveB: id, CurveG: id, CurveR: id}
}

func (o *ChannelCurve) apply(c pixel.Color) pixel.Color {
	return pixel.FromBGRA(o.CurveB[c.B()], o.CurveG[c.G()], o.CurveR[c.R()], c.A())
}

// table returns the lookup table for a color channel index (B, G, R).
func (o *ChannelCurve) table(ch int) *[256]uint8 {
	switch ch {
	case pixel.ChannelB:
		return &o.CurveB
	case pixel.ChannelG:
		return &o.CurveG
	default:
		return &o.CurveR
	}
}

func identityTable() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = uint8(i)
	}
	return t
}
