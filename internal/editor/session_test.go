package editor

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/input"
)

func TestNew_Defaults(t *testing.T) {
	s := New(nil)

	assert.Equal(t, ToolIdle, s.ActiveTool().ID())
	assert.Equal(t, View{Zoom: DefaultZoom}, s.View())
	assert.Equal(t, document.Black, s.Color())
	assert.Nil(t, s.Document())
	assert.False(t, s.Dirty())

	id, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNew_Options(t *testing.T) {
	s := New(nil,
		WithIDGenerator(NewFixedGenerator("fixed")),
		WithColor(document.Red),
		WithZoom(100, 1, 8),
		WithClock(NewClockAt(41)),
	)

	assert.Equal(t, "fixed", s.ID())
	assert.Equal(t, document.Red, s.Color())
	assert.Equal(t, 8.0, s.View().Zoom, "initial zoom is clamped")
	assert.Equal(t, int64(42), s.Dispatch().Tick)
}

func TestSession_SetZoomClampsAndNotifies(t *testing.T) {
	s, obs := newTestSession(t)

	s.SetZoom(1) // unchanged
	assert.Empty(t, obs.views)

	s.SetZoom(1000)
	assert.Equal(t, 64.0, s.View().Zoom)
	s.SetZoom(0)
	assert.Equal(t, 0.25, s.View().Zoom)
	assert.Len(t, obs.views, 2)
}

func TestSession_SetPanNotifiesOnChangeOnly(t *testing.T) {
	s, obs := newTestSession(t)

	s.SetPan(0, 0)
	s.SetPan(3, 4)
	s.SetPan(3, 4)

	require.Len(t, obs.views, 1)
	assert.Equal(t, View{Zoom: 1, PanX: 3, PanY: 4}, obs.views[0])
}

func TestSession_ZoomAtKeepsAnchor(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPan(10, 20)

	beforeX, beforeY := s.ScreenToCanvas(30, 40)
	s.ZoomAt(4, 30, 40)
	afterX, afterY := s.ScreenToCanvas(30, 40)

	assert.Equal(t, 4.0, s.View().Zoom)
	assert.Equal(t, beforeX, afterX)
	assert.Equal(t, beforeY, afterY)
	assert.Equal(t, -50.0, s.View().PanX)
	assert.Equal(t, -40.0, s.View().PanY)
}

func TestSession_ScreenToCanvas(t *testing.T) {
	s, _ := newTestSession(t, WithZoom(4, 1, 64))
	s.SetPan(8, 8)

	tests := []struct {
		sx, sy int
		cx, cy int
	}{
		{8, 8, 0, 0},
		{11, 11, 0, 0},
		{12, 8, 1, 0},
		{7, 8, -1, 0},
		{0, 0, -2, -2},
	}
	for _, tt := range tests {
		x, y := s.ScreenToCanvas(tt.sx, tt.sy)
		assert.Equal(t, tt.cx, x, "x for (%d,%d)", tt.sx, tt.sy)
		assert.Equal(t, tt.cy, y, "y for (%d,%d)", tt.sx, tt.sy)
	}
}

func TestSession_CenterDocument(t *testing.T) {
	s, _ := newTestSession(t, WithZoom(2, 1, 64))

	s.CenterDocument(100, 50)

	// 16x16 document at zoom 2 is 32 units wide.
	assert.Equal(t, 34.0, s.View().PanX)
	assert.Equal(t, 9.0, s.View().PanY)

	empty := New(nil)
	empty.CenterDocument(100, 50)
	assert.Equal(t, 0.0, empty.View().PanX)
}

func TestSession_PaintPixel(t *testing.T) {
	s, obs := newTestSession(t)

	assert.True(t, s.PaintPixel(2, 3, document.Red))
	assert.True(t, s.Dirty())
	assert.Equal(t, [][2]int{{2, 3}}, obs.pixels)

	c, err := s.Document().Pixel(2, 3)
	require.NoError(t, err)
	assert.Equal(t, document.Red, c)

	assert.False(t, s.PaintPixel(16, 0, document.Red))
	assert.False(t, s.PaintPixel(-1, 0, document.Red))
	assert.Len(t, obs.pixels, 1)

	s.MarkSaved()
	assert.False(t, s.Dirty())
}

func TestSession_SetDocumentWarnsWhenDirty(t *testing.T) {
	var logs bytes.Buffer
	s, _ := newTestSession(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	s.PaintPixel(0, 0, document.White)

	next, err := document.New("other", 2, 2)
	require.NoError(t, err)
	s.SetDocument(next)

	assert.Same(t, next, s.Document())
	assert.False(t, s.Dirty())
	assert.Contains(t, logs.String(), "replacing document with unsaved changes")
	assert.Contains(t, logs.String(), "document opened")
}

func TestSession_HoldKeys(t *testing.T) {
	s := New(nil)
	assert.Equal(t, []input.Key{input.KeySpace, input.KeyRune('z')}, s.HoldKeys())

	s = New(nil, WithBindings(Bindings{input.KeyRune('p'): ToolPencil}))
	assert.Empty(t, s.HoldKeys())
}

func TestSession_BindingsReturnsCopy(t *testing.T) {
	s := New(nil)
	b := s.Bindings()
	delete(b, input.KeySpace)

	assert.Contains(t, s.Bindings(), input.KeySpace)
}

func TestSession_CloseDestroysActiveTool(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeySpace))
	s.Dispatch()
	pan := s.ActiveTool().(*Pan)

	s.PushKey(press(input.KeyRune('q')))
	s.PushMouse(mouseMove(1, 1))
	s.Close()

	assert.False(t, pan.Active())
	assert.Equal(t, ToolIdle, s.ActiveTool().ID())
	keys, mouse := s.Pending()
	assert.Zero(t, keys)
	assert.Zero(t, mouse)
	assert.Nil(t, s.Document())
}

func TestSession_ConsumeOnEmptyQueueIsHarmless(t *testing.T) {
	var logs bytes.Buffer
	s, _ := newTestSession(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	for i := 0; i < 3; i++ {
		s.Dispatch()
	}
	assert.NotContains(t, logs.String(), "consume on empty queue", "dispatch only consumes after a successful peek")
}
