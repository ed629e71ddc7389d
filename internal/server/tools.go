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

func seedProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Seed for the random candidate proposals. The same seed and image always give the same markers. Omit to use the server default.",
	}
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Marker Detection
		{
			Name:        "marker_detect",
			Description: "Run one marker detection cycle on an image: Sobel edge mask, random rectangle proposals scored by perimeter edge density, top-K selection. Returns normalised markers and the overlay transforms they would get.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"seed": seedProperty(),
					"max_markers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum markers to return (default 3)",
						"default":     3,
					},
					"min_score": map[string]interface{}{
						"type":        "number",
						"description": "Minimum perimeter edge density to accept (0-1, default 0.3)",
						"default":     0.3,
					},
					"iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Number of random candidate rectangles (default 20)",
						"default":     20,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "marker_edge_mask",
			Description: "Return the binary Sobel edge mask used by marker detection as a base64-encoded PNG (white = edge).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Gradient magnitude a pixel must exceed (default 50)",
						"default":     50,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "marker_annotate",
			Description: "Detect markers and return the image with each marker outlined and numbered. Optionally writes the annotated PNG to disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"seed": seedProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also save the annotated PNG",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (default #00FF00)",
						"default":     "#00FF00",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "marker_crop",
			Description: "Detect markers and return the image region covered by one of them as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"seed": seedProperty(),
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Marker index, 0 = best scoring",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "index"},
			},
		},

		// Live Session
		{
			Name:        "session_status",
			Description: "Report the live session: detection state, overlay mode, current markers and overlay transforms, last status message and counters.",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_toggle_detection",
			Description: "Flip live detection on or off. Existing overlays keep animating while detection is off.",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_set_detection",
			Description: "Turn live detection on or off.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"enabled": map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"enabled"},
			},
		},
		{
			Name:        "session_set_visible",
			Description: "Mark the host as visible or hidden. Hidden pauses detection without changing the detection switch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"visible": map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"visible"},
			},
		},
		{
			Name:        "session_cycle_shape",
			Description: "Switch overlay primitives: cube, sphere, pyramid, then back to cube. Has no effect while a custom model is in use.",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_reset_shapes",
			Description: "Leave custom model mode and go back to cube primitives.",
			InputSchema: noArgs(),
		},
		{
			Name:        "session_load_model",
			Description: "Load a 3D model (.obj, .gltf or .glb) and use it as the overlay template for every marker.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the model file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "session_set_source",
			Description: "Attach a frame source to the live session: an image file, a directory of images replayed in order, or the camera.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to an image file or directory",
					},
					"camera": map[string]interface{}{
						"type":        "boolean",
						"description": "Open the configured capture device instead of path",
						"default":     false,
					},
				},
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
