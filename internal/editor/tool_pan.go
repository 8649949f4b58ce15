package editor

import "github.com/pixed/pixed/internal/input"

// Pan translates the view while the left button is dragged. It stays
// active while its activation key is held and asks to be destroyed when
// that key is released.
type Pan struct {
	toolBase
	state *panState
}

type panState struct {
	key      input.Key
	startX   float64
	startY   float64
	originX  float64
	originY  float64
	dragging bool
}

// NewPan returns the Pan tool template.
func NewPan() *Pan {
	return &Pan{toolBase: toolBase{id: ToolPan}}
}

func (p *Pan) Initialize(s *Session, trigger input.KeyEvent) error {
	v := s.View()
	p.state = &panState{
		key:     trigger.Key,
		originX: v.PanX,
		originY: v.PanY,
	}
	p.resetDestroy()
	return nil
}

func (p *Pan) Destroy(s *Session) error {
	if p.state == nil {
		return ErrNoState
	}
	p.state = nil
	return nil
}

func (p *Pan) OnKeyUp(s *Session, ev input.KeyEvent) bool {
	if p.state == nil || ev.Key != p.state.key {
		return false
	}
	p.requestDestroy()
	return true
}

func (p *Pan) OnMouseDown(s *Session, ev input.MouseEvent) bool {
	if ev.Button != input.ButtonLeft {
		return false
	}
	if p.state == nil {
		s.Logger().Error("pan: mouse down without state")
		return false
	}
	v := s.View()
	p.state.startX, p.state.startY = float64(ev.X), float64(ev.Y)
	p.state.originX, p.state.originY = v.PanX, v.PanY
	p.state.dragging = true
	return true
}

func (p *Pan) OnMouseMove(s *Session, ev input.MouseEvent) bool {
	if p.state == nil {
		s.Logger().Error("pan: mouse move without state")
		return false
	}
	if !p.state.dragging {
		return false
	}
	s.SetPan(
		p.state.originX+(float64(ev.X)-p.state.startX),
		p.state.originY+(float64(ev.Y)-p.state.startY),
	)
	return true
}

func (p *Pan) OnMouseUp(s *Session, ev input.MouseEvent) bool {
	if ev.Button != input.ButtonLeft {
		return false
	}
	if p.state == nil {
		s.Logger().Error("pan: mouse up without state")
		return false
	}
	p.state.dragging = false
	return true
}

// Active reports whether the tool currently holds per-activation state.
func (p *Pan) Active() bool { return p.state != nil }
