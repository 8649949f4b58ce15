package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
)

type cell struct {
	ch    rune
	style tcell.Style
}

// fakeScreen records content in memory and serves events from a channel.
type fakeScreen struct {
	w, h   int
	cells  map[[2]int]cell
	shows  int
	syncs  int
	events chan tcell.Event
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{w: w, h: h, cells: make(map[[2]int]cell), events: make(chan tcell.Event, 16)}
}

func (s *fakeScreen) Size() (int, int) { return s.w, s.h }

func (s *fakeScreen) SetContent(x, y int, primary rune, _ []rune, style tcell.Style) {
	s.cells[[2]int{x, y}] = cell{ch: primary, style: style}
}

func (s *fakeScreen) Clear() { s.cells = make(map[[2]int]cell) }
func (s *fakeScreen) Show()  { s.shows++ }
func (s *fakeScreen) Sync()  { s.syncs++ }

func (s *fakeScreen) PollEvent() tcell.Event {
	ev, ok := <-s.events
	if !ok {
		return nil
	}
	return ev
}

func (s *fakeScreen) at(x, y int) cell { return s.cells[[2]int{x, y}] }

func (s *fakeScreen) row(y int) string {
	out := make([]rune, 0, s.w)
	for x := 0; x < s.w; x++ {
		ch := s.at(x, y).ch
		if ch == 0 {
			ch = ' '
		}
		out = append(out, ch)
	}
	return string(out)
}

func newTestSession(t *testing.T, w, h uint32) *editor.Session {
	t.Helper()
	doc, err := document.New("sprite", w, h)
	require.NoError(t, err)
	return editor.New(doc,
		editor.WithIDGenerator(editor.NewFixedGenerator("term-test")),
		editor.WithZoom(1, 0.25, 64),
	)
}

func keyRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func mouseAt(col, row int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(col, row, buttons, tcell.ModNone)
}
