package input

import (
	"fmt"
	"strings"
	"unicode"
)

// Key is a layout-independent key code. Printable ASCII keys use the code
// of their upper-case character, so KeyRune('a') == KeyRune('A') == 65.
type Key int

const (
	KeyUnknown Key = -1
	KeySpace   Key = ' '
)

// Named non-printable keys.
const (
	KeyEscape Key = 256 + iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
)

var keyNames = map[Key]string{
	KeySpace:     "space",
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyRight:     "right",
	KeyLeft:      "left",
	KeyDown:      "down",
	KeyUp:        "up",
}

var keyAliases = map[string]Key{
	"esc":    KeyEscape,
	"return": KeyEnter,
}

// KeyRune maps a printable ASCII rune to its Key. Other runes map to
// KeyUnknown.
func KeyRune(r rune) Key {
	if r == ' ' {
		return KeySpace
	}
	if r > ' ' && r < unicode.MaxASCII {
		return Key(unicode.ToUpper(r))
	}
	return KeyUnknown
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k > ' ' && k < unicode.MaxASCII {
		return strings.ToLower(string(rune(k)))
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// ParseKey accepts a key name ("space", "escape", ...) or a single
// printable character.
func ParseKey(s string) (Key, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for k, name := range keyNames {
		if name == lower {
			return k, nil
		}
	}
	if k, ok := keyAliases[lower]; ok {
		return k, nil
	}
	if r := []rune(s); len(r) == 1 {
		if k := KeyRune(r[0]); k != KeyUnknown {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", s)
}
