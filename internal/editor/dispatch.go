package editor

import "github.com/pixed/pixed/internal/input"

// TickReport describes what one Dispatch call did.
type TickReport struct {
	Tick int64

	// Key and Mouse are the events consumed this tick, if any.
	Key   *input.KeyEvent
	Mouse *input.MouseEvent

	// KeyConsumed reports whether the active tool's key handler consumed
	// the key event.
	KeyConsumed bool

	// From and To are the active tool before and after the tick.
	From ToolID
	To   ToolID
}

// Switched reports whether the active tool changed.
func (r TickReport) Switched() bool { return r.From != r.To }

// Dispatch runs one tick of the tool state machine. See the package
// documentation for the algorithm.
func (s *Session) Dispatch() TickReport {
	active := s.active
	report := TickReport{Tick: s.clock.Next(), From: active.ID()}

	var next Tool
	if ev, ok := s.keys.Peek(); ok {
		report.Key = &ev
		report.KeyConsumed = routeKey(s, active, ev)

		if !report.KeyConsumed && active.ID() == ToolIdle && ev.Action == input.KeyPress {
			next = s.lookupBinding(ev.Key)
		}
		s.keys.Consume()

		if next != nil {
			s.activate(next, ev)
		}
	}

	if next == nil {
		if ev, ok := s.mouse.Pop(); ok {
			report.Mouse = &ev
			routeMouse(s, active, ev)
		}

		if active.ID() != ToolIdle && active.WantsDestroy() {
			s.destroy(active)
			s.active = s.tools.Idle()
			s.logger.Debug("tool deactivated", "tool", active.ID(), "tick", report.Tick)
		}
	}

	report.To = s.active.ID()
	return report
}

func routeKey(s *Session, t Tool, ev input.KeyEvent) bool {
	switch ev.Action {
	case input.KeyPress:
		if h, ok := t.(KeyDownHandler); ok {
			return h.OnKeyDown(s, ev)
		}
	case input.KeyRelease:
		if h, ok := t.(KeyUpHandler); ok {
			return h.OnKeyUp(s, ev)
		}
	case input.KeyRepeat:
		if h, ok := t.(KeyRepeatHandler); ok {
			return h.OnKeyRepeat(s, ev)
		}
	}
	return false
}

func routeMouse(s *Session, t Tool, ev input.MouseEvent) bool {
	switch ev.Action {
	case input.MouseMove:
		if h, ok := t.(MouseMoveHandler); ok {
			return h.OnMouseMove(s, ev)
		}
	case input.MouseDown:
		if h, ok := t.(MouseDownHandler); ok {
			return h.OnMouseDown(s, ev)
		}
	case input.MouseUp:
		if h, ok := t.(MouseUpHandler); ok {
			return h.OnMouseUp(s, ev)
		}
	}
	return false
}

func (s *Session) lookupBinding(key input.Key) Tool {
	id, ok := s.bindings[key]
	if !ok {
		return nil
	}
	t, ok := s.tools.Get(id)
	if !ok {
		s.logger.Warn("binding names unknown tool", "key", key.String(), "tool", id)
		return nil
	}
	return t
}

// activate swaps the active tool for next. A failed Initialize leaves the
// session Idle.
func (s *Session) activate(next Tool, trigger input.KeyEvent) {
	s.destroy(s.active)
	s.active = s.tools.Idle()

	if init, ok := next.(Initializer); ok {
		if err := init.Initialize(s, trigger); err != nil {
			s.logger.Error("tool activation failed",
				"error", &ToolError{Tool: next.ID(), Op: "initialize", Err: err})
			return
		}
	}
	s.active = next
	s.logger.Debug("tool activated", "tool", next.ID(), "key", trigger.Key.String())
}

func (s *Session) destroy(t Tool) {
	d, ok := t.(Destroyer)
	if !ok {
		return
	}
	if err := d.Destroy(s); err != nil {
		s.logger.Error("tool destroy failed", "error", &ToolError{Tool: t.ID(), Op: "destroy", Err: err})
	}
}
