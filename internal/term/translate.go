package term

import (
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/pixed/pixed/internal/input"
)

// Translator converts tcell events into editor input events. It is owned
// by the loop goroutine.
type Translator struct {
	hold    map[input.Key]bool
	latched map[input.Key]bool

	buttons      tcell.ButtonMask
	lastX, lastY int
	seen         bool
}

// NewTranslator creates a translator that latches the given keys.
func NewTranslator(holdKeys []input.Key) *Translator {
	t := &Translator{
		hold:    make(map[input.Key]bool, len(holdKeys)),
		latched: make(map[input.Key]bool),
	}
	for _, k := range holdKeys {
		t.hold[k] = true
	}
	return t
}

// Key translates a key event. ok is false for keys the editor has no code
// for.
func (t *Translator) Key(ev *tcell.EventKey) (input.KeyEvent, bool) {
	key := translateKey(ev)
	if key == input.KeyUnknown {
		return input.KeyEvent{}, false
	}
	out := input.KeyEvent{Key: key, Action: input.KeyPress, Mods: translateMods(ev.Modifiers())}

	if t.hold[key] {
		if t.latched[key] {
			out.Action = input.KeyRelease
			delete(t.latched, key)
		} else {
			t.latched[key] = true
		}
	}
	return out, true
}

// Unlatch forgets a latched key so its next press is reported as a press.
func (t *Translator) Unlatch(key input.Key) {
	delete(t.latched, key)
}

// Latched returns the keys currently latched down, in key order.
func (t *Translator) Latched() []input.Key {
	keys := make([]input.Key, 0, len(t.latched))
	for k := range t.latched {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ReleaseAll returns release events for every latched key and clears the
// latches.
func (t *Translator) ReleaseAll() []input.KeyEvent {
	var out []input.KeyEvent
	for _, k := range t.Latched() {
		out = append(out, input.KeyEvent{Key: k, Action: input.KeyRelease})
	}
	t.latched = make(map[input.Key]bool)
	return out
}

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button input.MouseButton
}{
	{tcell.Button1, input.ButtonLeft},
	{tcell.Button2, input.ButtonRight},
	{tcell.Button3, input.ButtonMiddle},
}

// Mouse translates a mouse event by diffing the button mask against the
// previous event. One tcell event may yield a move, several button
// transitions and a scroll, in that order.
func (t *Translator) Mouse(ev *tcell.EventMouse) []input.MouseEvent {
	col, row := ev.Position()
	x, y := col, row*2
	buttons := ev.Buttons()
	mods := translateMods(ev.Modifiers())

	var out []input.MouseEvent
	if !t.seen || x != t.lastX || y != t.lastY {
		out = append(out, input.MouseEvent{Action: input.MouseMove, Button: input.ButtonNone, Mods: mods, X: x, Y: y})
	}

	for _, b := range mouseButtons {
		now := buttons&b.mask != 0
		prev := t.buttons&b.mask != 0
		switch {
		case now && !prev:
			out = append(out, input.MouseEvent{Action: input.MouseDown, Button: b.button, Mods: mods, X: x, Y: y})
		case !now && prev:
			out = append(out, input.MouseEvent{Action: input.MouseUp, Button: b.button, Mods: mods, X: x, Y: y})
		}
	}

	var dx, dy int
	if buttons&tcell.WheelUp != 0 {
		dy--
	}
	if buttons&tcell.WheelDown != 0 {
		dy++
	}
	if buttons&tcell.WheelLeft != 0 {
		dx--
	}
	if buttons&tcell.WheelRight != 0 {
		dx++
	}
	if dx != 0 || dy != 0 {
		out = append(out, input.MouseEvent{Action: input.MouseScroll, Button: input.ButtonNone, Mods: mods, X: x, Y: y, DX: dx, DY: dy})
	}

	t.buttons = buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	t.lastX, t.lastY, t.seen = x, y, true
	return out
}

func translateKey(ev *tcell.EventKey) input.Key {
	switch ev.Key() {
	case tcell.KeyRune:
		return input.KeyRune(ev.Rune())
	case tcell.KeyEscape:
		return input.KeyEscape
	case tcell.KeyEnter:
		return input.KeyEnter
	case tcell.KeyTab:
		return input.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyBackspace
	case tcell.KeyDelete:
		return input.KeyDelete
	case tcell.KeyRight:
		return input.KeyRight
	case tcell.KeyLeft:
		return input.KeyLeft
	case tcell.KeyDown:
		return input.KeyDown
	case tcell.KeyUp:
		return input.KeyUp
	}
	return input.KeyUnknown
}

func translateMods(m tcell.ModMask) input.Mod {
	var out input.Mod
	if m&tcell.ModShift != 0 {
		out |= input.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= input.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= input.ModSuper
	}
	return out
}
