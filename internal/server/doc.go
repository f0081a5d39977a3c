// Package server implements the MCP (Model Context Protocol) server for the
// pixel operators and region effects.
//
// This package provides a JSON-RPC 2.0 server that exposes the operators of
// package unaryop and the effects of package effects through the MCP
// protocol, so that MCP-compatible clients can adjust images and inspect the
// results.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Get the premultiplied color at a pixel
//   - image_region_overlay: Outline and number regions before rendering
//   - image_compare: Pixel difference between two images
//
// Pixel Operators:
//   - image_apply_operator: Apply a named operator inside regions
//   - image_auto_level: Calibrate a level from the image and apply it
//   - image_level_unapply: Invert a level for one target color
//
// Region Effects:
//   - image_frosted_glass: Frosted-glass effect inside regions
//
// Every rendering tool reads the cached source, renders into a copy and
// returns a PNG preview (optionally scaled or cropped to preview_region),
// a diff against the source, and optionally writes the result to
// output_path.
//
// # Image Caching
//
// Images are decoded once per path and kept as premultiplied BGRA buffers.
// Writing to output_path evicts that path so later calls read the new file.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32700 (unparseable request line), -32601 (unknown method),
//     -32602 (malformed tools/call params) or -32000 (tool failure)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.NewWithConfig(config.Load())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
