package editor

import "github.com/pixed/pixed/internal/input"

// Pencil paints the session color under the pointer while the left button
// is held, joining successive positions with straight lines. It toggles:
// pressing its activation key again, or escape, deactivates it.
type Pencil struct {
	toolBase
	state *pencilState
}

type pencilState struct {
	key     input.Key
	drawing bool
	lastX   int
	lastY   int
}

// NewPencil returns the Pencil tool template.
func NewPencil() *Pencil {
	return &Pencil{toolBase: toolBase{id: ToolPencil}}
}

func (p *Pencil) Initialize(s *Session, trigger input.KeyEvent) error {
	if s.Document() == nil {
		return errNoDocument
	}
	p.state = &pencilState{key: trigger.Key}
	p.resetDestroy()
	return nil
}

func (p *Pencil) Destroy(s *Session) error {
	if p.state == nil {
		return ErrNoState
	}
	p.state = nil
	return nil
}

func (p *Pencil) OnKeyDown(s *Session, ev input.KeyEvent) bool {
	if p.state == nil {
		return false
	}
	if ev.Key == p.state.key || ev.Key == input.KeyEscape {
		p.requestDestroy()
		return true
	}
	return false
}

func (p *Pencil) OnMouseDown(s *Session, ev input.MouseEvent) bool {
	if ev.Button != input.ButtonLeft || p.state == nil {
		return false
	}
	x, y := s.ScreenToCanvas(ev.X, ev.Y)
	p.state.drawing = true
	p.state.lastX, p.state.lastY = x, y
	return s.PaintPixel(x, y, s.Color())
}

func (p *Pencil) OnMouseMove(s *Session, ev input.MouseEvent) bool {
	if p.state == nil || !p.state.drawing {
		return false
	}
	x, y := s.ScreenToCanvas(ev.X, ev.Y)
	if x == p.state.lastX && y == p.state.lastY {
		return true
	}
	painted := false
	line(p.state.lastX, p.state.lastY, x, y, func(px, py int) {
		if s.PaintPixel(px, py, s.Color()) {
			painted = true
		}
	})
	p.state.lastX, p.state.lastY = x, y
	return painted
}

func (p *Pencil) OnMouseUp(s *Session, ev input.MouseEvent) bool {
	if ev.Button != input.ButtonLeft || p.state == nil {
		return false
	}
	p.state.drawing = false
	return true
}

// line calls plot for every cell on the Bresenham line from (x0, y0) to
// (x1, y1), endpoints included.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
