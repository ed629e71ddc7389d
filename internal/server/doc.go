// Package server implements the MCP (Model Context Protocol) server for the
// marker overlay tools.
//
// This package provides a JSON-RPC 2.0 server that exposes marker detection
// and control of a live overlay session through the MCP protocol.
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
// Marker Detection (one-shot, on an image file):
//   - marker_detect: Markers plus the overlay transforms they would get
//   - marker_edge_mask: Binary Sobel edge mask as PNG
//   - marker_annotate: Image with markers outlined and numbered
//   - marker_crop: Region covered by one marker
//
// Live Session:
//   - session_status: Snapshot of markers, overlays and counters
//   - session_toggle_detection, session_set_detection: Detection switch
//   - session_set_visible: Host visibility (pauses detection when hidden)
//   - session_cycle_shape, session_reset_shapes: Overlay primitive
//   - session_load_model: Custom overlay model (.obj, .gltf, .glb)
//   - session_set_source: Image, image directory or camera
//
// One-shot tools accept a seed. The same image and seed always produce the
// same markers, and the overlay colours match a session started with that
// seed.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, and shared with image
// sources attached through session_set_source.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.Options{Session: sess, Log: log})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
