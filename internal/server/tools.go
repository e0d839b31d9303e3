package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// suppressionProperties are the optional overrides shared by every tool that
// runs duplicate suppression.
func suppressionProperties() map[string]interface{} {
	return map[string]interface{}{
		"overlap_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Overlap ratio (0-1) above which two circles are treated as duplicates. Default 0.5",
			"minimum":     0,
			"maximum":     1,
		},
		"priority": map[string]interface{}{
			"type":        "string",
			"description": "Which circle of an overlapping cluster survives",
			"enum":        []string{"largest-first", "smallest-first"},
		},
		"metric": map[string]interface{}{
			"type":        "string",
			"description": "Overlap metric: bounding-square intersection over disk union, or exact disk overlap",
			"enum":        []string{"square-over-disk", "disk"},
		},
	}
}

// detectionProperties adds the image path and radius range to the
// suppression overrides.
func detectionProperties() map[string]interface{} {
	props := suppressionProperties()
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the photograph",
	}
	props["min_radius"] = map[string]interface{}{
		"type":        "integer",
		"description": "Minimum circle radius in pixels. Default 5",
	}
	props["max_radius"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum circle radius in pixels. Default 100",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	annotate := detectionProperties()
	annotate["output_dir"] = map[string]interface{}{
		"type":        "string",
		"description": "Directory for the annotated image. Default img",
	}
	annotate["width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Output width in pixels. Default 800",
	}
	annotate["height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Output height in pixels. Default 600",
	}

	suppressProps := suppressionProperties()
	suppressProps["circles"] = map[string]interface{}{
		"type":        "array",
		"description": "Candidate circles as reported by a detector",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
				"r": map[string]interface{}{"type": "number", "minimum": 0},
			},
			"required": []string{"x", "y", "r"},
		},
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a photograph and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
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
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run the smoothing and Canny edge stage used by circle detection and return the edge map as base64 PNG. Useful for tuning thresholds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low hysteresis threshold (0-255). Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High hysteresis threshold (0-255). Default 150",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},

		// Circle Operations
		{
			Name:        "circles_detect",
			Description: "Detect circles in a photograph and remove overlapping duplicates. Returns raw candidates, survivors and the survivor count. found=false means the detector found nothing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "circles_suppress",
			Description: "Remove duplicate circles from a candidate list using greedy overlap suppression. Survivors are returned in pick order and are never modified.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": suppressProps,
				"required":   []string{"circles"},
			},
		},
		{
			Name:        "circles_annotate",
			Description: "Detect and de-duplicate circles, draw them onto the photograph, resize it and save it under a timestamped file name.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": annotate,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return s.result(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
