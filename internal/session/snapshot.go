package session

import (
	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

// ObjectView is a read-only copy of one live overlay.
type ObjectView struct {
	Index         int              `json:"index"`
	Marker        detection.Marker `json:"marker"`
	Position      scene.Vec3       `json:"position"`
	Rotation      scene.Vec3       `json:"rotation"`
	Scale         scene.Vec3       `json:"scale"`
	RotationSpeed float64          `json:"rotation_speed"`
	Color         string           `json:"color,omitempty"`
}

// FrameInfo describes the frame behind the current markers.
type FrameInfo struct {
	Seq    uint64 `json:"seq"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cycle  string `json:"cycle_id"`
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Detecting      bool               `json:"detecting"`
	Visible        bool               `json:"visible"`
	Mode           string             `json:"mode"`
	Shape          string             `json:"shape"`
	Template       string             `json:"template,omitempty"`
	TemplateLoaded bool               `json:"template_loaded"`
	Source         string             `json:"source,omitempty"`
	Frame          *FrameInfo         `json:"frame,omitempty"`
	Markers        []detection.Marker `json:"markers"`
	Objects        []ObjectView       `json:"objects"`
	Status         *Status            `json:"status,omitempty"`
	Stats          Stats              `json:"stats"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Detecting:      s.enabled,
		Visible:        !s.hidden,
		Mode:           "shape",
		Shape:          s.shape.String(),
		TemplateLoaded: s.template != nil,
		Source:         s.sourceLabel,
		Markers:        []detection.Marker{},
		Stats:          s.stats,
	}
	if s.template != nil {
		snap.Template = s.templateName
		if s.useTemplate {
			snap.Mode = "template"
		}
	}
	if s.last != nil {
		snap.Markers = append(snap.Markers, s.last.Markers...)
		snap.Frame = &FrameInfo{
			Seq:    s.last.FrameSeq,
			Width:  s.last.Width,
			Height: s.last.Height,
			Cycle:  s.lastCycle.String(),
		}
	}
	if s.lastStatus != nil {
		st := *s.lastStatus
		snap.Status = &st
	}

	objs := s.sync.Objects()
	snap.Objects = make([]ObjectView, len(objs))
	for i, o := range objs {
		snap.Objects[i] = ObjectView{
			Index:         o.Index,
			Marker:        o.Marker,
			Position:      o.Node.Position,
			Rotation:      o.Node.Rotation,
			Scale:         o.Node.Scale,
			RotationSpeed: o.RotationSpeed,
			Color:         o.Color,
		}
	}
	return snap
}
