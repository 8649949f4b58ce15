package editor

import "github.com/pixed/pixed/internal/input"

// ToolID names a tool variant.
type ToolID string

const (
	ToolIdle   ToolID = "idle"
	ToolPan    ToolID = "pan"
	ToolPencil ToolID = "pencil"
	ToolPicker ToolID = "picker"
	ToolZoom   ToolID = "zoom"
)

// Tool is the identity every tool variant carries.
type Tool interface {
	ID() ToolID

	// WantsDestroy reports that the tool asked to be deactivated. The
	// dispatcher honours it at the end of the tick that observed it.
	WantsDestroy() bool
}

// Initializer allocates per-activation state. trigger is the key event that
// selected the tool.
type Initializer interface {
	Initialize(s *Session, trigger input.KeyEvent) error
}

// Destroyer releases per-activation state.
type Destroyer interface {
	Destroy(s *Session) error
}

// KeyDownHandler handles key presses. The result reports whether the tool
// consumed the event.
type KeyDownHandler interface {
	OnKeyDown(s *Session, ev input.KeyEvent) bool
}

// KeyUpHandler handles key releases.
type KeyUpHandler interface {
	OnKeyUp(s *Session, ev input.KeyEvent) bool
}

// KeyRepeatHandler handles auto-repeat key events.
type KeyRepeatHandler interface {
	OnKeyRepeat(s *Session, ev input.KeyEvent) bool
}

// MouseDownHandler handles button presses.
type MouseDownHandler interface {
	OnMouseDown(s *Session, ev input.MouseEvent) bool
}

// MouseUpHandler handles button releases.
type MouseUpHandler interface {
	OnMouseUp(s *Session, ev input.MouseEvent) bool
}

// MouseMoveHandler handles pointer motion.
type MouseMoveHandler interface {
	OnMouseMove(s *Session, ev input.MouseEvent) bool
}

// toolBase carries the wants-destroy flag shared by all stateful tools.
type toolBase struct {
	id           ToolID
	wantsDestroy bool
}

func (b *toolBase) ID() ToolID         { return b.id }
func (b *toolBase) WantsDestroy() bool { return b.wantsDestroy }

func (b *toolBase) requestDestroy() { b.wantsDestroy = true }
func (b *toolBase) resetDestroy()   { b.wantsDestroy = false }
