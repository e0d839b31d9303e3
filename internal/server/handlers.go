package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/circle-counter/internal/analysis"
	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/detection"
	"github.com/ironsheep/circle-counter/internal/imaging"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "circles_detect").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return s.result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshalJSON(result),
			},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	// Circle Operations
	case "circles_detect":
		return s.handleCirclesDetect(args)
	case "circles_suppress":
		return s.handleCirclesSuppress(args)
	case "circles_annotate":
		return s.handleCirclesAnnotate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{Code: code, Message: message}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: mcpErr}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
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

// imageEdgeDetectArgs uses pointers so an explicit 0 threshold is kept.
type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  *int   `json:"threshold_low"`
	ThresholdHigh *int   `json:"threshold_high"`
}

// thresholds returns the requested hysteresis thresholds, falling back to
// the configured ones for absent arguments.
func (a imageEdgeDetectArgs) thresholds(cfg config.DetectionConfig) (low, high int) {
	low, high = cfg.CannyLow, cfg.CannyHigh
	if a.ThresholdLow != nil {
		low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		high = *a.ThresholdHigh
	}
	return low, high
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	low, high := a.thresholds(s.cfg.Detection)
	if low < 0 || high > 255 || low > high {
		return nil, fmt.Errorf("invalid thresholds %d/%d (want 0 <= low <= high <= 255)", low, high)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, s.cfg.Detection.BlurRadius, low, high)
}

// === Circle Handlers ===

// suppressionArgs are the optional per-call overrides. Pointers distinguish
// an explicit 0 threshold from an absent one.
type suppressionArgs struct {
	OverlapThreshold *float64 `json:"overlap_threshold"`
	Priority         string   `json:"priority"`
	Metric           string   `json:"metric"`
}

func (a suppressionArgs) apply(cfg *config.SuppressionConfig) {
	if a.OverlapThreshold != nil {
		cfg.Threshold = *a.OverlapThreshold
	}
	if a.Priority != "" {
		cfg.Priority = a.Priority
	}
	if a.Metric != "" {
		cfg.Metric = a.Metric
	}
}

type circlesDetectArgs struct {
	suppressionArgs
	Path      string `json:"path"`
	MinRadius int    `json:"min_radius"`
	MaxRadius int    `json:"max_radius"`
}

// callConfig copies the server defaults and applies per-call overrides.
func (s *Server) callConfig(a circlesDetectArgs) (*config.Config, error) {
	cfg := *s.cfg
	a.suppressionArgs.apply(&cfg.Suppression)
	if a.MinRadius > 0 {
		cfg.Detection.MinRadius = a.MinRadius
	}
	if a.MaxRadius > 0 {
		cfg.Detection.MaxRadius = a.MaxRadius
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CirclesDetectResult is returned by circles_detect and circles_annotate.
type CirclesDetectResult struct {
	// Found is false when the detector reported nothing at all.
	Found bool `json:"found"`
	*analysis.Result
}

func (s *Server) handleCirclesDetect(args json.RawMessage) (interface{}, error) {
	var a circlesDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.callConfig(a)
	if err != nil {
		return nil, err
	}
	analyzer, err := analysis.New(cfg, s.cache)
	if err != nil {
		return nil, err
	}

	result, err := analyzer.Detect(context.Background(), a.Path)
	return detectResult(a.Path, result, err)
}

type circlesAnnotateArgs struct {
	circlesDetectArgs
	OutputDir string `json:"output_dir"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (s *Server) handleCirclesAnnotate(args json.RawMessage) (interface{}, error) {
	var a circlesAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.callConfig(a.circlesDetectArgs)
	if err != nil {
		return nil, err
	}
	if a.OutputDir != "" {
		cfg.Render.OutputDir = a.OutputDir
	}
	if a.Width > 0 {
		cfg.Render.Width = a.Width
	}
	if a.Height > 0 {
		cfg.Render.Height = a.Height
	}

	analyzer, err := analysis.New(cfg, s.cache)
	if err != nil {
		return nil, err
	}

	index := int(s.annotated.Add(1) - 1)
	result, err := analyzer.Analyze(context.Background(), a.Path, index)
	return detectResult(a.Path, result, err)
}

// detectResult maps ErrNoCircles onto an explicit found=false result.
func detectResult(path string, result *analysis.Result, err error) (interface{}, error) {
	if errors.Is(err, detection.ErrNoCircles) {
		return &CirclesDetectResult{
			Found: false,
			Result: &analysis.Result{
				Path:       path,
				Candidates: []suppress.Circle{},
				Survivors:  []suppress.Circle{},
			},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CirclesDetectResult{Found: true, Result: result}, nil
}

type circlesSuppressArgs struct {
	suppressionArgs
	Circles []suppress.Circle `json:"circles"`
}

// CirclesSuppressResult is returned by circles_suppress.
type CirclesSuppressResult struct {
	Survivors []suppress.Circle `json:"survivors"`
	Count     int               `json:"count"`
	Removed   int               `json:"removed"`
	Threshold float64           `json:"threshold"`
	Priority  string            `json:"priority"`
	Metric    string            `json:"metric"`
}

func (s *Server) handleCirclesSuppress(args json.RawMessage) (interface{}, error) {
	var a circlesSuppressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := s.cfg.Suppression
	a.suppressionArgs.apply(&cfg)

	suppressor, err := cfg.Suppressor()
	if err != nil {
		return nil, err
	}
	survivors, err := suppressor.Apply(a.Circles)
	if err != nil {
		return nil, err
	}

	return &CirclesSuppressResult{
		Survivors: survivors,
		Count:     len(survivors),
		Removed:   len(a.Circles) - len(survivors),
		Threshold: suppressor.Threshold(),
		Priority:  suppressor.Priority().String(),
		Metric:    suppressor.Metric().String(),
	}, nil
}
