package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/image-effects-mcp/internal/effects"
	"github.com/ironsheep/image-effects-mcp/internal/imaging"
	"github.com/ironsheep/image-effects-mcp/internal/pixel"
	"github.com/ironsheep/image-effects-mcp/internal/unaryop"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_apply_operator").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.cfg.Debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Builds the operator or effect and renders it
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_region_overlay":
		return s.handleImageRegionOverlay(args)
	case "image_compare":
		return s.handleImageCompare(args)

	// Pixel Operators
	case "image_apply_operator":
		return s.handleImageApplyOperator(args)
	case "image_auto_level":
		return s.handleImageAutoLevel(args)
	case "image_level_unapply":
		return s.handleImageLevelUnapply(args)

	// Region Effects
	case "image_frosted_glass":
		return s.handleImageFrostedGlass(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.cache.Buffer(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(buf, a.X, a.Y)
}

type imageRegionOverlayArgs struct {
	Path    string           `json:"path"`
	Regions []imaging.Region `json:"regions"`
	Color   string           `json:"color"`
	Scale   float64          `json:"scale"`
}

func (s *Server) handleImageRegionOverlay(args json.RawMessage) (interface{}, error) {
	var a imageRegionOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	outline := imaging.DefaultOutlineColor
	if a.Color != "" {
		c, err := parseColor(a.Color, "")
		if err != nil {
			return nil, err
		}
		outline = pixel.Premultiply(c)
	}
	buf, err := s.cache.Buffer(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Encode(imaging.OutlineRegions(buf, a.Regions, outline), a.Scale)
}

type imageCompareArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	before, err := s.cache.Buffer(a.Path1)
	if err != nil {
		return nil, err
	}
	after, err := s.cache.Buffer(a.Path2)
	if err != nil {
		return nil, err
	}
	return imaging.Diff(before, after)
}

// === Rendering ===

// outputArgs are the arguments shared by every tool that renders an image.
type outputArgs struct {
	Regions    []imaging.Region `json:"regions"`
	Scale      float64          `json:"scale"`
	OutputPath string           `json:"output_path"`
	Preview    *imaging.Region  `json:"preview_region,omitempty"`
}

// RenderResult is returned by every rendering tool.
type RenderResult struct {
	Effect     string                `json:"effect"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Regions    int                   `json:"regions"`
	ElapsedMS  float64               `json:"elapsed_ms"`
	Diff       *imaging.DiffResult   `json:"diff"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image"`
}

// render applies e to the cached image at path and encodes the result.
// Pixels outside the requested regions keep their source values. Sequential
// renders run on the calling goroutine.
func (s *Server) render(path string, e effects.Effect, out outputArgs, sequential bool) (*RenderResult, error) {
	src, err := s.cache.Buffer(path)
	if err != nil {
		return nil, err
	}

	rois := imaging.Rectangles(out.Regions, src.Bounds())
	dst := src.Clone()

	renderFn := effects.RenderParallel
	if sequential {
		renderFn = effects.Render
	}
	start := time.Now()
	if err := renderFn(e, dst, src, rois); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	diff, err := imaging.Diff(src, dst)
	if err != nil {
		return nil, err
	}

	res := &RenderResult{
		Effect:    e.Name(),
		Width:     dst.Width,
		Height:    dst.Height,
		Regions:   len(rois),
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
		Diff:      diff,
	}

	if out.Preview != nil {
		res.Image, err = imaging.EncodeRegion(dst, out.Preview.Rect(), out.Scale)
	} else {
		res.Image, err = imaging.Encode(dst, out.Scale)
	}
	if err != nil {
		return nil, err
	}

	if out.OutputPath != "" {
		if err := imaging.Save(s.cache, out.OutputPath, dst); err != nil {
			return nil, err
		}
		res.OutputPath = out.OutputPath
	}
	return res, nil
}

// === Pixel Operator Handlers ===

type imageApplyOperatorArgs struct {
	Path     string          `json:"path"`
	Operator string          `json:"operator"`
	Params   json.RawMessage `json:"params"`
	outputArgs
}

// OperatorResult extends RenderResult with the level validity flag, which
// is only reported for the level operator.
type OperatorResult struct {
	*RenderResult
	Operator   string `json:"operator"`
	LevelValid *bool  `json:"level_valid,omitempty"`
}

func (s *Server) handleImageApplyOperator(args json.RawMessage) (interface{}, error) {
	var a imageApplyOperatorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	op, err := buildOperator(a.Operator, a.Params)
	if err != nil {
		return nil, err
	}

	res, err := s.render(a.Path, effects.UnaryEffect{Op: op}, a.outputArgs, false)
	if err != nil {
		return nil, err
	}

	out := &OperatorResult{RenderResult: res, Operator: a.Operator}
	if l, ok := op.(*unaryop.Level); ok {
		valid := l.Valid()
		out.LevelValid = &valid
	}
	return out, nil
}

type imageAutoLevelArgs struct {
	Path string `json:"path"`
	// SampleRegions restricts the pixels the calibration reads. Rendering
	// uses Regions.
	SampleRegions []imaging.Region `json:"sample_regions"`
	outputArgs
}

// AutoLevelResult reports the calibrated configuration with the render.
type AutoLevelResult struct {
	*RenderResult
	InLow  string     `json:"in_low"`
	InHigh string     `json:"in_high"`
	Gamma  [3]float64 `json:"gamma"`
	Valid  bool       `json:"valid"`
}

func (s *Server) handleImageAutoLevel(args json.RawMessage) (interface{}, error) {
	var a imageAutoLevelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.cache.Buffer(a.Path)
	if err != nil {
		return nil, err
	}

	var sample []image.Rectangle
	if len(a.SampleRegions) > 0 {
		sample = imaging.Rectangles(a.SampleRegions, src.Bounds())
	}
	level := unaryop.AutoLevel(src, sample)

	res, err := s.render(a.Path, effects.UnaryEffect{Op: level}, a.outputArgs, false)
	if err != nil {
		return nil, err
	}

	out := &AutoLevelResult{
		RenderResult: res,
		InLow:        level.ColorInLow().Hex()[:7],
		InHigh:       level.ColorInHigh().Hex()[:7],
		Valid:        level.Valid(),
	}
	for ch := range out.Gamma {
		out.Gamma[ch], _ = level.Gamma(ch)
	}
	return out, nil
}

type imageLevelUnapplyArgs struct {
	Color string `json:"color"`
	levelParams
}

// UnapplyResult is the inverse mapping of one color. Values are indexed by
// channel in B, G, R order.
type UnapplyResult struct {
	Before []float64 `json:"before"`
	Slope  []float64 `json:"slope"`
	Valid  bool      `json:"valid"`
}

func (s *Server) handleImageLevelUnapply(args json.RawMessage) (interface{}, error) {
	var a imageLevelUnapplyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	target, err := parseColor(a.Color, "")
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	level, err := a.levelParams.build()
	if err != nil {
		return nil, err
	}

	before, slope := level.UnApply(target)
	return &UnapplyResult{Before: before[:], Slope: slope[:], Valid: level.Valid()}, nil
}

// === Region Effect Handlers ===

type imageFrostedGlassArgs struct {
	Path   string  `json:"path"`
	Amount *int    `json:"amount"`
	Seed   *uint64 `json:"seed"`
	outputArgs
}

func (s *Server) handleImageFrostedGlass(args json.RawMessage) (interface{}, error) {
	var a imageFrostedGlassArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	amount := 3
	if a.Amount != nil {
		amount = *a.Amount
	}
	seed := s.cfg.Seed
	if a.Seed != nil {
		seed = *a.Seed
	}

	var opts []effects.Option
	if seed != 0 {
		opts = append(opts, effects.WithSeed(seed))
	}
	fg, err := effects.NewFrostedGlass(amount, opts...)
	if err != nil {
		return nil, err
	}
	// A seeded generator only gives repeatable output when draws happen in
	// a fixed order.
	return s.render(a.Path, fg, a.outputArgs, seed != 0)
}
