package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/ironsheep/marker-overlay-mcp/internal/capture"
	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
	"github.com/ironsheep/marker-overlay-mcp/internal/session"
)

// ErrNoSession is returned by the session_* tools when the server runs
// without a live session.
var ErrNoSession = errors.New("no live session")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "marker_detect", "session_status").
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
		s.log.WithError(err).WithField("tool", params.Name).Debug("tool failed")
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
// Marker tools load the image through the cache and preprocessor and run a
// fresh detector per call, so they never disturb the live session. Session
// tools require Options.Session.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Marker Detection
	case "marker_detect":
		return s.handleMarkerDetect(args)
	case "marker_edge_mask":
		return s.handleMarkerEdgeMask(args)
	case "marker_annotate":
		return s.handleMarkerAnnotate(args)
	case "marker_crop":
		return s.handleMarkerCrop(args)

	// Live Session
	case "session_status":
		return s.handleSessionStatus()
	case "session_toggle_detection":
		return s.handleSessionToggleDetection()
	case "session_set_detection":
		return s.handleSessionSetDetection(args)
	case "session_set_visible":
		return s.handleSessionSetVisible(args)
	case "session_cycle_shape":
		return s.handleSessionCycleShape()
	case "session_reset_shapes":
		return s.handleSessionResetShapes()
	case "session_load_model":
		return s.handleSessionLoadModel(ctx, args)
	case "session_set_source":
		return s.handleSessionSetSource(ctx, args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating a missing object as empty.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Marker Detection Handlers ===

func (s *Server) resolveSeed(seed *int64) int64 {
	switch {
	case seed != nil:
		return *seed
	case s.opts.Seed != 0:
		return s.opts.Seed
	default:
		return time.Now().UnixNano()
	}
}

// detect loads path as a frame and runs one detection cycle on it.
func (s *Server) detect(path string, seed int64, cfg detection.Config) (*imaging.Frame, *detection.Result, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	f, err := imaging.LoadFrame(s.cache, path, s.pre, 1)
	if err != nil {
		return nil, nil, err
	}
	det, err := detection.NewDetector(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, err
	}
	res, err := det.Detect(f)
	if err != nil {
		return nil, nil, err
	}
	return f, res, nil
}

// markerRect converts floored marker bounds to an image rectangle that
// includes the right and bottom perimeter pixels.
func markerRect(b detection.Bounds) image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2+1, b.Y2+1)
}

// OverlayPreview is the transform an overlay would get for one marker.
type OverlayPreview struct {
	Index         int                 `json:"index"`
	Position      scene.Vec3          `json:"position"`
	Scale         scene.Vec3          `json:"scale"`
	RotationSpeed float64             `json:"rotation_speed"`
	Color         imaging.ColorResult `json:"color"`
}

// DetectResult is the marker_detect response.
type DetectResult struct {
	Seed       int64              `json:"seed"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Proposed   int                `json:"proposed"`
	Accepted   int                `json:"accepted"`
	EdgePixels int                `json:"edge_pixels"`
	ElapsedMS  float64            `json:"elapsed_ms"`
	Markers    []detection.Marker `json:"markers"`
	Overlays   []OverlayPreview   `json:"overlays"`
}

type markerDetectArgs struct {
	Path       string   `json:"path"`
	Seed       *int64   `json:"seed"`
	MaxMarkers int      `json:"max_markers"`
	MinScore   *float64 `json:"min_score"`
	Iterations int      `json:"iterations"`
}

func (s *Server) handleMarkerDetect(args json.RawMessage) (interface{}, error) {
	var a markerDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := s.opts.Detection
	if a.MaxMarkers != 0 {
		cfg.MaxMarkers = a.MaxMarkers
	}
	if a.MinScore != nil {
		cfg.MinScore = *a.MinScore
	}
	if a.Iterations != 0 {
		cfg.Iterations = a.Iterations
	}

	seed := s.resolveSeed(a.Seed)
	_, res, err := s.detect(a.Path, seed, cfg)
	if err != nil {
		return nil, err
	}

	// colours follow the same sequence a session seeded with seed would use
	ov := s.opts.Overlay
	colors := rand.New(rand.NewSource(seed + 1))
	previews := make([]OverlayPreview, len(res.Markers))
	for i, m := range res.Markers {
		previews[i] = OverlayPreview{
			Index:         i,
			Position:      ov.Position(m),
			Scale:         ov.Scale(m),
			RotationSpeed: ov.RotationSpeed(i),
			Color:         imaging.DescribeColor(imaging.RandomOverlayColor(colors, ov.Saturation, ov.Lightness)),
		}
	}

	return &DetectResult{
		Seed:       seed,
		Width:      res.Width,
		Height:     res.Height,
		Proposed:   res.Proposed,
		Accepted:   res.Accepted,
		EdgePixels: res.EdgePixels,
		ElapsedMS:  float64(res.Elapsed) / float64(time.Millisecond),
		Markers:    res.Markers,
		Overlays:   previews,
	}, nil
}

type markerEdgeMaskArgs struct {
	Path      string  `json:"path"`
	Threshold float64 `json:"threshold"`
}

// EdgeMaskResult is the marker_edge_mask response.
type EdgeMaskResult struct {
	Threshold  float64 `json:"threshold"`
	EdgePixels int     `json:"edge_pixels"`
	*imaging.EncodedImage
}

func (s *Server) handleMarkerEdgeMask(args json.RawMessage) (interface{}, error) {
	var a markerEdgeMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == 0 {
		a.Threshold = s.opts.Detection.EdgeThreshold
	}
	if a.Threshold < 0 {
		return nil, fmt.Errorf("threshold must be >= 0, got %v", a.Threshold)
	}

	f, err := imaging.LoadFrame(s.cache, a.Path, s.pre, 1)
	if err != nil {
		return nil, err
	}
	mask := detection.NewEdgeExtractor(a.Threshold).Extract(f)
	enc, err := imaging.EncodePNG(mask.Image())
	if err != nil {
		return nil, err
	}
	return &EdgeMaskResult{Threshold: a.Threshold, EdgePixels: mask.Count(), EncodedImage: enc}, nil
}

type markerAnnotateArgs struct {
	Path       string `json:"path"`
	Seed       *int64 `json:"seed"`
	OutputPath string `json:"output_path"`
	Color      string `json:"color"`
}

// AnnotateResult is the marker_annotate response.
type AnnotateResult struct {
	Seed    int64                 `json:"seed"`
	Markers []detection.Marker    `json:"markers"`
	SavedTo string                `json:"saved_to,omitempty"`
	Image   *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleMarkerAnnotate(args json.RawMessage) (interface{}, error) {
	var a markerAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#00FF00"
	}

	seed := s.resolveSeed(a.Seed)
	f, res, err := s.detect(a.Path, seed, s.opts.Detection)
	if err != nil {
		return nil, err
	}

	boxes := make([]image.Rectangle, len(res.Markers))
	for i, m := range res.Markers {
		boxes[i] = markerRect(m.Bounds)
	}
	annotated := imaging.Annotate(f.Image(), boxes, a.Color)

	enc, err := imaging.EncodePNG(annotated)
	if err != nil {
		return nil, err
	}
	out := &AnnotateResult{Seed: seed, Markers: res.Markers, Image: enc}
	if a.OutputPath != "" {
		if err := imaging.SavePNG(a.OutputPath, annotated); err != nil {
			return nil, err
		}
		out.SavedTo = a.OutputPath
	}
	return out, nil
}

type markerCropArgs struct {
	Path  string  `json:"path"`
	Seed  *int64  `json:"seed"`
	Index int     `json:"index"`
	Scale float64 `json:"scale"`
}

// CropResult is the marker_crop response.
type CropResult struct {
	Seed   int64            `json:"seed"`
	Marker detection.Marker `json:"marker"`
	*imaging.EncodedImage
}

func (s *Server) handleMarkerCrop(args json.RawMessage) (interface{}, error) {
	var a markerCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	seed := s.resolveSeed(a.Seed)
	f, res, err := s.detect(a.Path, seed, s.opts.Detection)
	if err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= len(res.Markers) {
		return nil, fmt.Errorf("marker index %d out of range: %d marker(s) detected", a.Index, len(res.Markers))
	}

	m := res.Markers[a.Index]
	img := f.Image()
	enc, err := imaging.CropRegion(img, markerRect(m.Bounds).Intersect(img.Bounds()), a.Scale)
	if err != nil {
		return nil, err
	}
	return &CropResult{Seed: seed, Marker: m, EncodedImage: enc}, nil
}

// === Live Session Handlers ===

func (s *Server) requireSession() (*session.Session, error) {
	if s.session == nil {
		return nil, ErrNoSession
	}
	return s.session, nil
}

func (s *Server) handleSessionStatus() (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (s *Server) handleSessionToggleDetection() (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	sess.ToggleDetection()
	return sess.Snapshot(), nil
}

type sessionSetDetectionArgs struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleSessionSetDetection(args json.RawMessage) (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	var a sessionSetDetectionArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Enabled == nil {
		return nil, fmt.Errorf("enabled is required")
	}
	sess.SetDetection(*a.Enabled)
	return sess.Snapshot(), nil
}

type sessionSetVisibleArgs struct {
	Visible *bool `json:"visible"`
}

func (s *Server) handleSessionSetVisible(args json.RawMessage) (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	var a sessionSetVisibleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Visible == nil {
		return nil, fmt.Errorf("visible is required")
	}
	sess.SetVisible(*a.Visible)
	return sess.Snapshot(), nil
}

func (s *Server) handleSessionCycleShape() (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	sess.CycleShape()
	return sess.Snapshot(), nil
}

func (s *Server) handleSessionResetShapes() (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	sess.ResetToDefault()
	return sess.Snapshot(), nil
}

type sessionLoadModelArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleSessionLoadModel(ctx context.Context, args json.RawMessage) (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	var a sessionLoadModelArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	select {
	case err := <-sess.LoadModel(a.Path):
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return sess.Snapshot(), nil
}

type sessionSetSourceArgs struct {
	Path   string `json:"path"`
	Camera bool   `json:"camera"`
}

func (s *Server) handleSessionSetSource(ctx context.Context, args json.RawMessage) (interface{}, error) {
	sess, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	var a sessionSetSourceArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	switch {
	case a.Camera && a.Path != "":
		return nil, fmt.Errorf("path and camera are mutually exclusive")
	case a.Camera:
		cam, err := capture.OpenCamera(ctx, s.opts.Capture, s.pre, s.log.WithField("component", "capture"))
		if err != nil {
			return nil, err
		}
		sess.SetSource(cam, "Camera")
	case a.Path != "":
		src, err := session.OpenSource(s.cache, a.Path, s.pre)
		if err != nil {
			return nil, err
		}
		sess.SetSource(src, "")
	default:
		return nil, fmt.Errorf("path or camera is required")
	}
	return sess.Snapshot(), nil
}
