package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/input"
)

type recordingObserver struct {
	views  []View
	pixels [][2]int
}

func (o *recordingObserver) ViewChanged(v View)     { o.views = append(o.views, v) }
func (o *recordingObserver) CanvasChanged(x, y int) { o.pixels = append(o.pixels, [2]int{x, y}) }

func newTestSession(t *testing.T, opts ...Option) (*Session, *recordingObserver) {
	t.Helper()
	doc, err := document.New("Untitled", 16, 16)
	require.NoError(t, err)
	obs := &recordingObserver{}
	opts = append([]Option{
		WithObserver(obs),
		WithIDGenerator(NewFixedGenerator("session-test")),
		WithZoom(1, 0.25, 64),
	}, opts...)
	return New(doc, opts...), obs
}

func press(k input.Key) input.KeyEvent   { return input.KeyEvent{Key: k, Action: input.KeyPress} }
func release(k input.Key) input.KeyEvent { return input.KeyEvent{Key: k, Action: input.KeyRelease} }

func mouseDown(b input.MouseButton, x, y int) input.MouseEvent {
	return input.MouseEvent{Action: input.MouseDown, Button: b, X: x, Y: y}
}

func mouseUp(b input.MouseButton, x, y int) input.MouseEvent {
	return input.MouseEvent{Action: input.MouseUp, Button: b, X: x, Y: y}
}

func mouseMove(x, y int) input.MouseEvent {
	return input.MouseEvent{Action: input.MouseMove, Button: input.ButtonNone, X: x, Y: y}
}
