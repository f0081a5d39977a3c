package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func regionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func levelProperties() map[string]interface{} {
	return map[string]interface{}{
		"in_low":   map[string]interface{}{"type": "string", "description": "Lower input bound as #RRGGBB (default #000000)"},
		"in_high":  map[string]interface{}{"type": "string", "description": "Upper input bound as #RRGGBB (default #FFFFFF)"},
		"out_low":  map[string]interface{}{"type": "string", "description": "Lower output bound as #RRGGBB (default #000000)"},
		"out_high": map[string]interface{}{"type": "string", "description": "Upper output bound as #RRGGBB (default #FFFFFF)"},
		"gamma": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "number"},
			"description": "One gamma for all channels or three in blue, green, red order. Clamped to [0.1, 10]. Default 1",
		},
	}
}

// renderProperties adds the arguments shared by every rendering tool to props.
func renderProperties(props map[string]interface{}) map[string]interface{} {
	props["path"] = pathProperty()
	props["regions"] = map[string]interface{}{
		"type":        "array",
		"items":       regionSchema(),
		"description": "Regions to process. Omit to process the whole image. Overlapping regions are processed once",
	}
	props["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor of the returned preview (0.05 to 4). Default 1.0",
		"default":     1.0,
	}
	props["preview_region"] = map[string]interface{}{
		"type":        "object",
		"properties":  regionSchema()["properties"],
		"description": "Optional crop of the returned preview",
	}
	props["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional .png path to save the full-size result to",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and alpha information.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the premultiplied BGRA color at a pixel, with its hex form, intensity byte and HSV values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x":    map[string]interface{}{"type": "integer", "description": "X coordinate (0-based)"},
					"y":    map[string]interface{}{"type": "integer", "description": "Y coordinate (0-based)"},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_region_overlay",
			Description: "Draw numbered outlines of regions over an image to check them before rendering.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"regions": map[string]interface{}{
						"type":  "array",
						"items": regionSchema(),
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB or #RRGGBBAA (default magenta)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "regions"},
			},
		},
		{
			Name:        "image_compare",
			Description: "Compare two images of the same size pixel by pixel, e.g. a source and a saved render.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": pathProperty(),
					"path2": pathProperty(),
				},
				"required": []string{"path1", "path2"},
			},
		},

		// Pixel Operators
		{
			Name: "image_apply_operator",
			Description: "Apply a per-pixel color operator to an image or regions of it and return the result as base64-encoded PNG. " +
				"Operators: identity, constant {color}, blend_constant {color with alpha}, set_channel {channel, value}, " +
				"set_alpha {alpha}, set_alpha_255, invert, invert_with_alpha, desaturate, luminosity_curve {table | points}, " +
				"channel_curve {b, g, r: {table | points}}, level {in_low, in_high, out_low, out_high, gamma}, " +
				"hue_saturation_lightness {hue -180..180, saturation 0..200, lightness -100..100}, " +
				"posterize {levels | red, green, blue: 1..256}, red_eye_remove {tolerance, saturation: 0..100}.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": renderProperties(map[string]interface{}{
					"operator": map[string]interface{}{
						"type":        "string",
						"enum":        OperatorNames,
						"description": "Operator to apply",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Operator parameters; see the tool description",
					},
				}),
				"required": []string{"path", "operator"},
			},
		},
		{
			Name:        "image_auto_level",
			Description: "Calibrate a level from the image's 0.5th percentile, mean and 99.5th percentile per channel, apply it and report the chosen ranges and gammas.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": renderProperties(map[string]interface{}{
					"sample_regions": map[string]interface{}{
						"type":        "array",
						"items":       regionSchema(),
						"description": "Regions to calibrate from. Omit to sample the whole image",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_level_unapply",
			Description: "Invert a level: find the input color that maps to a given output color, with the slope of the inverse per channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := levelProperties()
					props["color"] = map[string]interface{}{
						"type":        "string",
						"description": "Output color to invert, #RRGGBB",
					}
					return props
				}(),
				"required": []string{"color"},
			},
		},

		// Region Effects
		{
			Name:        "image_frosted_glass",
			Description: "Apply a frosted-glass effect: each pixel becomes the average of a randomly chosen intensity group of its neighborhood.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": renderProperties(map[string]interface{}{
					"amount": map[string]interface{}{
						"type":        "integer",
						"description": "Neighborhood radius in pixels, 0 to 10. Default 3",
						"default":     3,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Optional random seed. A non-zero seed renders on one goroutine and gives the same result every time",
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
