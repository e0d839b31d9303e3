// Package server implements the MCP (Model Context Protocol) server that
// exposes circle counting as tools.
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
//   - image_edge_detect: Smoothing plus Canny, the first detection stage
//
// Circle Operations:
//   - circles_detect: Detect and de-duplicate circles, return the count
//   - circles_suppress: De-duplicate a caller-supplied candidate list
//   - circles_annotate: Detect, draw, resize and save the annotated image
//
// The circle tools accept overlap_threshold, priority and metric overrides.
// Overrides apply to a single call; the server configuration is not changed.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime
// of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string as data. A detector that finds nothing
// is not an error: circles_detect reports found=false instead.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
