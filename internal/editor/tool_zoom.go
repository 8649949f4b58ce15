package editor

import "github.com/pixed/pixed/internal/input"

// ZoomStep is the factor applied per zoom click.
const ZoomStep = 2.0

// Zoom magnifies around the pointer: left click zooms in, right click
// zooms out. Like Pan it is held, and releasing its key deactivates it.
type Zoom struct {
	toolBase
	key    input.Key
	active bool
}

// NewZoom returns the Zoom tool template.
func NewZoom() *Zoom {
	return &Zoom{toolBase: toolBase{id: ToolZoom}}
}

func (z *Zoom) Initialize(s *Session, trigger input.KeyEvent) error {
	z.key = trigger.Key
	z.active = true
	z.resetDestroy()
	return nil
}

func (z *Zoom) Destroy(s *Session) error {
	if !z.active {
		return ErrNoState
	}
	z.active = false
	return nil
}

func (z *Zoom) OnKeyUp(s *Session, ev input.KeyEvent) bool {
	if !z.active || ev.Key != z.key {
		return false
	}
	z.requestDestroy()
	return true
}

func (z *Zoom) OnMouseDown(s *Session, ev input.MouseEvent) bool {
	if !z.active {
		return false
	}
	zoom := s.View().Zoom
	switch ev.Button {
	case input.ButtonLeft:
		s.ZoomAt(zoom*ZoomStep, ev.X, ev.Y)
	case input.ButtonRight:
		s.ZoomAt(zoom/ZoomStep, ev.X, ev.Y)
	default:
		return false
	}
	return true
}
