package term

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
)

const upperHalf = '▀'

var (
	backdrop     = document.RGB(0x20, 0x20, 0x20)
	checkerLight = document.RGB(0xcc, 0xcc, 0xcc)
	checkerDark  = document.RGB(0x99, 0x99, 0x99)

	statusStyle = tcell.StyleDefault.
			Foreground(tcell.ColorBlack).
			Background(tcell.ColorSilver)
)

// Renderer draws a session onto a screen. It only reads session state and
// implements editor.Observer to learn when a redraw is needed.
type Renderer struct {
	screen  Screen
	session *editor.Session
	dirty   bool
	message string
}

// NewRenderer creates a renderer. The first Draw always paints.
func NewRenderer(screen Screen, session *editor.Session) *Renderer {
	return &Renderer{screen: screen, session: session, dirty: true}
}

// ViewChanged implements editor.Observer.
func (r *Renderer) ViewChanged(editor.View) { r.dirty = true }

// CanvasChanged implements editor.Observer.
func (r *Renderer) CanvasChanged(int, int) { r.dirty = true }

// Invalidate forces the next Draw to paint.
func (r *Renderer) Invalidate() { r.dirty = true }

// Dirty reports whether the screen is out of date.
func (r *Renderer) Dirty() bool { return r.dirty }

// SetMessage shows msg at the end of the status line until replaced.
func (r *Renderer) SetMessage(msg string) {
	r.message = msg
	r.dirty = true
}

// Draw paints the canvas and status line if anything changed, and reports
// whether it did.
func (r *Renderer) Draw() bool {
	if !r.dirty {
		return false
	}
	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		return false
	}

	for row := 0; row < h-1; row++ {
		for col := 0; col < w; col++ {
			top := r.sample(col, row*2)
			bottom := r.sample(col, row*2+1)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			r.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	r.drawStatus(w, h-1)

	r.screen.Show()
	r.dirty = false
	return true
}

// sample returns the opaque color shown at renderer position (x, y).
func (r *Renderer) sample(x, y int) document.Color {
	doc := r.session.Document()
	if doc == nil {
		return backdrop
	}
	cx, cy := r.session.ScreenToCanvas(x, y)
	c, err := doc.Pixel(cx, cy)
	if err != nil {
		return backdrop
	}
	return over(c, checker(x, y))
}

func checker(x, y int) document.Color {
	if (x/2+y/2)%2 == 0 {
		return checkerLight
	}
	return checkerDark
}

// over composites c onto the opaque color bg.
func over(c, bg document.Color) document.Color {
	a := uint32(c.A())
	if a == 0xff {
		return c
	}
	mix := func(fg, bg uint8) uint8 {
		return uint8((uint32(fg)*a + uint32(bg)*(0xff-a)) / 0xff)
	}
	return document.RGB(mix(c.R(), bg.R()), mix(c.G(), bg.G()), mix(c.B(), bg.B()))
}

func tcellColor(c document.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}

// StatusText returns the status line for the session.
func (r *Renderer) StatusText() string {
	s := r.session
	var b strings.Builder
	if doc := s.Document(); doc != nil {
		fmt.Fprintf(&b, " %s", doc.Name())
		if s.Dirty() {
			b.WriteString("*")
		}
		fmt.Fprintf(&b, "  %dx%d", doc.Width(), doc.Height())
	} else {
		b.WriteString(" no document")
	}
	fmt.Fprintf(&b, "  %s  %gx  %s", s.ActiveTool().ID(), s.View().Zoom, s.Color())
	if r.message != "" {
		fmt.Fprintf(&b, "  %s", r.message)
	}
	return b.String()
}

func (r *Renderer) drawStatus(w, row int) {
	text := runewidth.Truncate(r.StatusText(), w, "…")
	x := 0
	for _, ch := range text {
		r.screen.SetContent(x, row, ch, nil, statusStyle)
		x += runewidth.RuneWidth(ch)
	}
	for ; x < w; x++ {
		r.screen.SetContent(x, row, ' ', nil, statusStyle)
	}
}
