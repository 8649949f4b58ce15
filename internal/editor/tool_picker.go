package editor

import (
	"errors"

	"github.com/pixed/pixed/internal/input"
)

var errNoDocument = errors.New("no document open")

// Picker copies the color under a left click into the session color and
// deactivates itself. Escape cancels it.
type Picker struct {
	toolBase
	armed bool
}

// NewPicker returns the Picker tool template.
func NewPicker() *Picker {
	return &Picker{toolBase: toolBase{id: ToolPicker}}
}

func (p *Picker) Initialize(s *Session, trigger input.KeyEvent) error {
	if s.Document() == nil {
		return errNoDocument
	}
	p.armed = true
	p.resetDestroy()
	return nil
}

func (p *Picker) Destroy(s *Session) error {
	if !p.armed {
		return ErrNoState
	}
	p.armed = false
	return nil
}

func (p *Picker) OnKeyDown(s *Session, ev input.KeyEvent) bool {
	if !p.armed || ev.Key != input.KeyEscape {
		return false
	}
	p.requestDestroy()
	return true
}

func (p *Picker) OnMouseDown(s *Session, ev input.MouseEvent) bool {
	if !p.armed || ev.Button != input.ButtonLeft || s.Document() == nil {
		return false
	}
	x, y := s.ScreenToCanvas(ev.X, ev.Y)
	c, err := s.Document().Pixel(x, y)
	if err != nil {
		return false
	}
	s.SetColor(c)
	p.requestDestroy()
	return true
}
