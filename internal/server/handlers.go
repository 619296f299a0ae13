package server

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ironsheep/video-tools-mcp/internal/config"
	"github.com/ironsheep/video-tools-mcp/internal/imaging"
	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/pipeline"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
	"github.com/ironsheep/video-tools-mcp/internal/video"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sequence_info", "pipeline_run").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		logging.FromContext(ctx).Infow("Tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sequence Information
	case "sequence_info":
		return s.handleSequenceInfo(args)
	case "sequence_sample_color":
		return s.handleSequenceSampleColor(args)

	// Pipeline Operations
	case "pipeline_run":
		return s.handlePipelineRun(ctx, args)
	case "pipeline_frame":
		return s.handlePipelineFrame(ctx, args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Sequence Handlers ===

type sequenceInfoArgs struct {
	Dir string `json:"dir"`
}

func (s *Server) handleSequenceInfo(args json.RawMessage) (interface{}, error) {
	var a sequenceInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	return video.SequenceInfo(a.Dir)
}

type sequenceSampleColorArgs struct {
	Dir   string `json:"dir"`
	Frame int64  `json:"frame"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

func (s *Server) handleSequenceSampleColor(args json.RawMessage) (interface{}, error) {
	var a sequenceSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := video.NewDirectorySource(a.Dir, 1)
	if err != nil {
		return nil, err
	}
	path, err := src.Path(a.Frame)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Pipeline Handlers ===

type pipelineArgs struct {
	Config     string `json:"config"`
	ConfigPath string `json:"config_path"`
}

func (a pipelineArgs) load() (*config.Pipeline, error) {
	switch {
	case a.Config != "":
		return config.Parse(a.Config)
	case a.ConfigPath != "":
		return config.Load(a.ConfigPath)
	default:
		return nil, fmt.Errorf("config or config_path is required")
	}
}

// key identifies a pipeline definition in the pipeline cache.
func (a pipelineArgs) key() string {
	if a.Config != "" {
		return "inline:" + a.Config
	}
	return "file:" + a.ConfigPath
}

// PipelineRunResult summarizes a finished pipeline_run.
type PipelineRunResult struct {
	RunID     string          `json:"run_id"`
	OutputDir string          `json:"output_dir"`
	Region    temporal.Region `json:"region"`
	Frames    int             `json:"frames"`
	Stages    []string        `json:"stages"`
}

func (s *Server) handlePipelineRun(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.load()
	if err != nil {
		return nil, err
	}
	p, err := pipeline.Build(cfg)
	if err != nil {
		return nil, err
	}
	manifest, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &PipelineRunResult{
		RunID:     manifest.RunID,
		OutputDir: cfg.Output.Dir,
		Region:    manifest.Region,
		Frames:    len(manifest.Frames),
		Stages:    manifest.Stages,
	}, nil
}

type pipelineFrameArgs struct {
	pipelineArgs
	Frame int64 `json:"frame"`
}

// PipelineFrameResult is one computed output frame.
type PipelineFrameResult struct {
	Frame  int64           `json:"frame"`
	Region temporal.Region `json:"region"`
	*imaging.EncodedImage
}

func (s *Server) handlePipelineFrame(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pipelineFrameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	key := a.key()
	p, ok := s.pipelines.Get(key)
	if !ok {
		cfg, err := a.load()
		if err != nil {
			return nil, err
		}
		if p, err = pipeline.Build(cfg); err != nil {
			return nil, err
		}
		s.pipelines.Add(key, p)
	}

	img, err := p.Frame(ctx, a.Frame)
	if err != nil {
		return nil, err
	}
	region, err := p.Region(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &PipelineFrameResult{Frame: a.Frame, Region: region, EncodedImage: encoded}, nil
}
