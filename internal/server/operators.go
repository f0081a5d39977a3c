package server

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
	"github.com/ironsheep/image-effects-mcp/internal/unaryop"
)

// OperatorNames lists the values accepted by the "operator" argument of
// image_apply_operator, in the order they are documented.
var OperatorNames = []string{
	"identity",
	"constant",
	"blend_constant",
	"set_channel",
	"set_alpha",
	"set_alpha_255",
	"invert",
	"invert_with_alpha",
	"desaturate",
	"luminosity_curve",
	"channel_curve",
	"level",
	"hue_saturation_lightness",
	"posterize",
	"red_eye_remove",
}

// colorParams carries a single hex color. Colors are given with straight
// alpha and premultiplied before use.
type colorParams struct {
	Color string `json:"color"`
}

type setChannelParams struct {
	Channel string `json:"channel"`
	Value   int    `json:"value"`
}

type setAlphaParams struct {
	Alpha int `json:"alpha"`
}

// curveParams describes one lookup table, either as all 256 entries or as
// control points joined by straight lines. Neither means identity.
type curveParams struct {
	Table  []int    `json:"table,omitempty"`
	Points [][2]int `json:"points,omitempty"`
}

type channelCurveParams struct {
	B curveParams `json:"b"`
	G curveParams `json:"g"`
	R curveParams `json:"r"`
}

// levelParams configures a Level. Bounds are "#RRGGBB" colors and default to
// black (low) and white (high). Gamma holds one value for all channels or one
// per channel in B, G, R order.
type levelParams struct {
	InLow   string    `json:"in_low"`
	InHigh  string    `json:"in_high"`
	OutLow  string    `json:"out_low"`
	OutHigh string    `json:"out_high"`
	Gamma   []float64 `json:"gamma"`
}

type hslParams struct {
	Hue        int  `json:"hue"`
	Saturation *int `json:"saturation"`
	Lightness  int  `json:"lightness"`
}

type posterizeParams struct {
	Levels int `json:"levels"`
	Red    int `json:"red"`
	Green  int `json:"green"`
	Blue   int `json:"blue"`
}

type redEyeParams struct {
	Tolerance  *int `json:"tolerance"`
	Saturation *int `json:"saturation"`
}

// buildOperator constructs the named operator from its JSON parameters.
// Missing parameters take neutral defaults; out of range values are errors.
func buildOperator(name string, params json.RawMessage) (unaryop.Operator, error) {
	decode := func(v interface{}) error {
		if len(params) == 0 || string(params) == "null" {
			return nil
		}
		if err := json.Unmarshal(params, v); err != nil {
			return fmt.Errorf("%s params: %w", name, err)
		}
		return nil
	}

	switch name {
	case "identity":
		return unaryop.Identity{}, nil
	case "invert":
		return unaryop.Invert{}, nil
	case "invert_with_alpha":
		return unaryop.InvertWithAlpha{}, nil
	case "desaturate":
		return unaryop.Desaturate{}, nil
	case "set_alpha_255":
		return unaryop.SetAlphaChannelTo255{}, nil

	case "constant", "blend_constant":
		var p colorParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		c, err := parseColor(p.Color, "#000000")
		if err != nil {
			return nil, err
		}
		c = pixel.Premultiply(c)
		if name == "constant" {
			return unaryop.Constant{Color: c}, nil
		}
		return unaryop.BlendConstant{Color: c}, nil

	case "set_channel":
		var p setChannelParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		ch, err := parseChannel(p.Channel)
		if err != nil {
			return nil, err
		}
		v, err := byteParam("value", p.Value)
		if err != nil {
			return nil, err
		}
		return unaryop.NewSetChannel(ch, v)

	case "set_alpha":
		p := setAlphaParams{Alpha: 255}
		if err := decode(&p); err != nil {
			return nil, err
		}
		a, err := byteParam("alpha", p.Alpha)
		if err != nil {
			return nil, err
		}
		return unaryop.SetAlphaChannel{Alpha: a}, nil

	case "luminosity_curve":
		var p curveParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		table, err := p.build()
		if err != nil {
			return nil, err
		}
		lc := unaryop.NewLuminosityCurve()
		lc.Curve = table
		return lc, nil

	case "channel_curve":
		var p channelCurveParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		cc := unaryop.NewChannelCurve()
		for _, it := range []struct {
			name string
			src  curveParams
			dst  *[256]uint8
		}{
			{"b", p.B, &cc.CurveB},
			{"g", p.G, &cc.CurveG},
			{"r", p.R, &cc.CurveR},
		} {
			table, err := it.src.build()
			if err != nil {
				return nil, fmt.Errorf("channel %s: %w", it.name, err)
			}
			*it.dst = table
		}
		return cc, nil

	case "level":
		var p levelParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		return p.build()

	case "hue_saturation_lightness":
		var p hslParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		sat := 100
		if p.Saturation != nil {
			sat = *p.Saturation
		}
		return unaryop.NewHueSaturationLightness(p.Hue, sat, p.Lightness)

	case "posterize":
		p := posterizeParams{}
		if err := decode(&p); err != nil {
			return nil, err
		}
		if p.Levels == 0 {
			p.Levels = 4
		}
		pick := func(v int) int {
			if v == 0 {
				return p.Levels
			}
			return v
		}
		return unaryop.NewPosterize(pick(p.Red), pick(p.Green), pick(p.Blue))

	case "red_eye_remove":
		var p redEyeParams
		if err := decode(&p); err != nil {
			return nil, err
		}
		tol, sat := 70, 90
		if p.Tolerance != nil {
			tol = *p.Tolerance
		}
		if p.Saturation != nil {
			sat = *p.Saturation
		}
		return unaryop.NewRedEyeRemove(tol, sat)

	default:
		return nil, fmt.Errorf("unknown operator %q (want one of %s): %w",
			name, strings.Join(OperatorNames, ", "), unaryop.ErrInvalidArgument)
	}
}

// build returns the Level described by p. An inconsistent configuration is
// not an error: the level reports Valid() == false and keeps identity tables.
func (p levelParams) build() (*unaryop.Level, error) {
	names := [4]string{"in_low", "in_high", "out_low", "out_high"}
	hexes := [4]string{p.InLow, p.InHigh, p.OutLow, p.OutHigh}
	defaults := [4]string{"#000000", "#FFFFFF", "#000000", "#FFFFFF"}
	var bounds [4]pixel.Color
	for i := range bounds {
		c, err := parseColor(hexes[i], defaults[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		bounds[i] = c
	}

	var gamma [3]float64
	switch len(p.Gamma) {
	case 0:
		gamma = [3]float64{1, 1, 1}
	case 1:
		gamma = [3]float64{p.Gamma[0], p.Gamma[0], p.Gamma[0]}
	case 3:
		copy(gamma[:], p.Gamma)
	default:
		return nil, fmt.Errorf("gamma needs 1 or 3 values, got %d: %w", len(p.Gamma), unaryop.ErrInvalidArgument)
	}
	for ch, g := range gamma {
		if g <= 0 {
			return nil, fmt.Errorf("gamma[%d] = %g must be positive: %w", ch, g, unaryop.ErrInvalidArgument)
		}
	}

	l := unaryop.NewLevelWith(bounds[0], bounds[1], bounds[2], bounds[3], [3]float64{1, 1, 1})
	for ch, g := range gamma {
		if g == 1 {
			continue
		}
		if err := l.SetGamma(ch, g); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// build returns the lookup table described by c.
func (c curveParams) build() ([256]uint8, error) {
	var table [256]uint8
	switch {
	case len(c.Table) > 0 && len(c.Points) > 0:
		return table, fmt.Errorf("curve: give either table or points: %w", unaryop.ErrInvalidArgument)

	case len(c.Table) > 0:
		if len(c.Table) != len(table) {
			return table, fmt.Errorf("curve table has %d entries, want 256: %w", len(c.Table), unaryop.ErrInvalidArgument)
		}
		for i, v := range c.Table {
			b, err := byteParam(fmt.Sprintf("table[%d]", i), v)
			if err != nil {
				return table, err
			}
			table[i] = b
		}
		return table, nil

	case len(c.Points) > 0:
		return curveFromPoints(c.Points)

	default:
		for i := range table {
			table[i] = uint8(i)
		}
		return table, nil
	}
}

// curveFromPoints interpolates a table linearly through control points.
// Inputs before the first point take its output, and likewise after the last.
func curveFromPoints(points [][2]int) ([256]uint8, error) {
	var table [256]uint8
	pts := make([][2]int, len(points))
	copy(pts, points)
	for _, p := range pts {
		if p[0] < 0 || p[0] > 255 || p[1] < 0 || p[1] > 255 {
			return table, fmt.Errorf("curve point (%d,%d) out of range [0,255]: %w", p[0], p[1], unaryop.ErrInvalidArgument)
		}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i][0] < pts[j][0] })

	for x := range table {
		switch {
		case x <= pts[0][0]:
			table[x] = uint8(pts[0][1])
		case x >= pts[len(pts)-1][0]:
			table[x] = uint8(pts[len(pts)-1][1])
		default:
			k := sort.Search(len(pts), func(i int) bool { return pts[i][0] >= x })
			lo, hi := pts[k-1], pts[k]
			// lo[0] < x <= hi[0], so the span is never zero.
			y := float64(lo[1]) + float64(hi[1]-lo[1])*float64(x-lo[0])/float64(hi[0]-lo[0])
			table[x] = uint8(math.Round(y))
		}
	}
	return table, nil
}

// parseColor parses a hex color, falling back to def when hex is empty.
func parseColor(hex, def string) (pixel.Color, error) {
	if hex == "" {
		hex = def
	}
	c, err := pixel.ParseHex(hex)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", err, unaryop.ErrInvalidArgument)
	}
	return c, nil
}

// parseChannel accepts b, g, r, a (or blue, green, red, alpha) and 0..3.
func parseChannel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "blue":
		return pixel.ChannelB, nil
	case "g", "green":
		return pixel.ChannelG, nil
	case "r", "red":
		return pixel.ChannelR, nil
	case "a", "alpha":
		return pixel.ChannelA, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	return 0, fmt.Errorf("unknown channel %q: %w", s, unaryop.ErrInvalidArgument)
}

func byteParam(name string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%s %d out of range [0,255]: %w", name, v, unaryop.ErrInvalidArgument)
	}
	return uint8(v), nil
}
