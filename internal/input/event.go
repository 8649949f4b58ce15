package input

import (
	"fmt"
	"strings"
)

// KeyAction is the state transition a key event reports.
type KeyAction int

const (
	KeyRelease KeyAction = iota
	KeyPress
	KeyRepeat
)

func (a KeyAction) String() string {
	switch a {
	case KeyRelease:
		return "release"
	case KeyPress:
		return "press"
	case KeyRepeat:
		return "repeat"
	}
	return fmt.Sprintf("KeyAction(%d)", int(a))
}

// ParseKeyAction accepts the names produced by String ("down" and "up" are
// accepted as aliases for press and release).
func ParseKeyAction(s string) (KeyAction, error) {
	switch strings.ToLower(s) {
	case "press", "down":
		return KeyPress, nil
	case "release", "up":
		return KeyRelease, nil
	case "repeat":
		return KeyRepeat, nil
	}
	return 0, fmt.Errorf("unknown key action %q", s)
}

// MouseAction is the kind of pointer event.
type MouseAction int

const (
	MouseDown MouseAction = iota
	MouseUp
	MouseMove
	MouseScroll
)

func (a MouseAction) String() string {
	switch a {
	case MouseDown:
		return "down"
	case MouseUp:
		return "up"
	case MouseMove:
		return "move"
	case MouseScroll:
		return "scroll"
	}
	return fmt.Sprintf("MouseAction(%d)", int(a))
}

// ParseMouseAction is the inverse of MouseAction.String.
func ParseMouseAction(s string) (MouseAction, error) {
	switch strings.ToLower(s) {
	case "down":
		return MouseDown, nil
	case "up":
		return MouseUp, nil
	case "move":
		return MouseMove, nil
	case "scroll":
		return MouseScroll, nil
	}
	return 0, fmt.Errorf("unknown mouse action %q", s)
}

// MouseButton identifies a pointer button. Move events carry ButtonNone.
type MouseButton int

const (
	ButtonNone MouseButton = iota - 1
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return fmt.Sprintf("MouseButton(%d)", int(b))
}

// ParseButton is the inverse of MouseButton.String. The empty string is
// ButtonNone.
func ParseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return ButtonNone, nil
	case "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown mouse button %q", s)
}

// Mod is a bitmask of held modifier keys.
type Mod int

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// KeyEvent is one keyboard transition as reported by the platform.
type KeyEvent struct {
	Key      Key
	Scancode int
	Action   KeyAction
	Mods     Mod
}

func (e KeyEvent) String() string {
	return e.Key.String() + ":" + e.Action.String()
}

// MouseEvent is one pointer event in window coordinates. Scroll events
// report wheel steps in DX/DY.
type MouseEvent struct {
	Action MouseAction
	Button MouseButton
	Mods   Mod
	X, Y   int
	DX, DY int
}

func (e MouseEvent) String() string {
	return fmt.Sprintf("%s:%s@%d,%d", e.Action, e.Button, e.X, e.Y)
}
