package term

import "github.com/gdamore/tcell/v2"

// Screen is the part of tcell.Screen the front end draws on and polls.
type Screen interface {
	Size() (int, int)
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Clear()
	Show()
	Sync()
	PollEvent() tcell.Event
}

var _ Screen = tcell.Screen(nil)
