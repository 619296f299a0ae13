package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pipelineProperties are shared by the tools that take a pipeline definition.
func pipelineProperties() map[string]interface{} {
	return map[string]interface{}{
		"config": map[string]interface{}{
			"type":        "string",
			"description": "Pipeline definition as YAML (source, stages, output)",
		},
		"config_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a pipeline YAML file. Used when config is empty",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	frameProps := pipelineProperties()
	frameProps["frame"] = map[string]interface{}{
		"type":        "integer",
		"description": "Output frame index. Filters with a window shift the first available index (see pipeline region)",
	}

	return []Tool{
		// Sequence Information
		{
			Name:        "sequence_info",
			Description: "Describe a directory of frames: frame count, frame index region and the dimensions and format of the first frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame directory",
					},
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "sequence_sample_color",
			Description: "Get the exact color value at a pixel of one frame of a sequence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame directory",
					},
					"frame": map[string]interface{}{
						"type":        "integer",
						"description": "Frame index",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"dir", "frame", "x", "y"},
			},
		},

		// Pipeline Operations
		{
			Name:        "pipeline_run",
			Description: "Run a pipeline over a frame directory and write the result to output.dir, streaming a few frames at a time. Returns the run manifest.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(),
			},
		},
		{
			Name:        "pipeline_frame",
			Description: "Compute a single output frame of a pipeline and return it as base64-encoded PNG. Only the input frames that frame depends on are decoded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": frameProps,
				"required":   []string{"frame"},
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
