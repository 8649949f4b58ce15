package editor

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixed/pixed/internal/input"
)

func TestDispatch_EmptyQueues(t *testing.T) {
	s, _ := newTestSession(t)

	r := s.Dispatch()
	assert.Equal(t, int64(1), r.Tick)
	assert.Nil(t, r.Key)
	assert.Nil(t, r.Mouse)
	assert.False(t, r.Switched())
	assert.Equal(t, ToolIdle, s.ActiveTool().ID())
}

func TestDispatch_SpaceActivatesPan(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeySpace))

	r := s.Dispatch()

	assert.Equal(t, ToolIdle, r.From)
	assert.Equal(t, ToolPan, r.To)
	assert.False(t, r.KeyConsumed, "idle has no key handlers")
	pan := s.ActiveTool().(*Pan)
	assert.True(t, pan.Active(), "initialize allocates state")

	keys, _ := s.Pending()
	assert.Equal(t, 0, keys, "key event always consumed")
}

func TestDispatch_PanReleaseRevertsToIdle(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeySpace))
	s.Dispatch()
	pan := s.ActiveTool().(*Pan)

	s.PushKey(release(input.KeySpace))
	r := s.Dispatch()

	assert.True(t, r.KeyConsumed)
	assert.Equal(t, ToolPan, r.From)
	assert.Equal(t, ToolIdle, r.To)
	assert.Equal(t, ToolIdle, s.ActiveTool().ID())
	assert.False(t, pan.Active(), "destroy frees per-activation state")
}

func TestDispatch_ReleaseOfOtherKeyKeepsPan(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeySpace))
	s.PushKey(release(input.KeyRune('q')))
	s.Dispatch()
	r := s.Dispatch()

	assert.False(t, r.KeyConsumed)
	assert.Equal(t, ToolPan, s.ActiveTool().ID())
}

func TestDispatch_UnmappedKeyStaysIdle(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeyRune('q')))

	r := s.Dispatch()

	assert.Equal(t, ToolIdle, r.To)
	keys, _ := s.Pending()
	assert.Equal(t, 0, keys)
}

func TestDispatch_BindingsOnlyConsultedWhenIdle(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeySpace))
	s.PushKey(press(input.KeyRune('z')))
	s.Dispatch()
	s.Dispatch()

	assert.Equal(t, ToolPan, s.ActiveTool().ID())
}

func TestDispatch_ReleaseWhileIdleDoesNotActivate(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(release(input.KeySpace))
	s.PushKey(input.KeyEvent{Key: input.KeySpace, Action: input.KeyRepeat})
	s.Dispatch()
	s.Dispatch()

	assert.Equal(t, ToolIdle, s.ActiveTool().ID())
}

func TestDispatch_MouseSkippedOnTransitionTick(t *testing.T) {
	s, obs := newTestSession(t)
	s.PushKey(press(input.KeySpace))
	s.PushMouse(mouseDown(input.ButtonLeft, 10, 10))

	r := s.Dispatch()
	assert.Nil(t, r.Mouse)
	_, mouse := s.Pending()
	assert.Equal(t, 1, mouse, "mouse event waits for the next tick")

	r = s.Dispatch()
	require.NotNil(t, r.Mouse)
	assert.Equal(t, input.MouseDown, r.Mouse.Action)

	s.PushMouse(mouseMove(15, 20))
	s.Dispatch()

	assert.Equal(t, View{Zoom: 1, PanX: 5, PanY: 10}, s.View())
	require.Len(t, obs.views, 1)
	assert.Equal(t, s.View(), obs.views[0])
}

func TestDispatch_PanDragSequence(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetPan(100, 50)

	s.PushKey(press(input.KeySpace))
	s.Dispatch()

	for _, ev := range []input.MouseEvent{
		mouseMove(0, 0), // not dragging yet
		mouseDown(input.ButtonLeft, 10, 10),
		mouseMove(12, 13),
		mouseMove(20, 5),
		mouseUp(input.ButtonLeft, 20, 5),
		mouseMove(40, 40), // released, ignored
	} {
		s.PushMouse(ev)
		s.Dispatch()
	}

	assert.Equal(t, 110.0, s.View().PanX)
	assert.Equal(t, 45.0, s.View().PanY)
}

func TestDispatch_PanIgnoresRightButton(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeySpace))
	s.Dispatch()

	s.PushMouse(mouseDown(input.ButtonRight, 0, 0))
	s.PushMouse(mouseMove(30, 30))
	s.Dispatch()
	s.Dispatch()

	assert.Equal(t, 0.0, s.View().PanX)
}

func TestDispatch_ScrollIsConsumedButUnhandled(t *testing.T) {
	s, obs := newTestSession(t)
	s.PushMouse(input.MouseEvent{Action: input.MouseScroll, DY: 1})

	r := s.Dispatch()
	require.NotNil(t, r.Mouse)
	_, mouse := s.Pending()
	assert.Equal(t, 0, mouse)
	assert.Empty(t, obs.views)
}

type failingTool struct{ toolBase }

func (f *failingTool) Initialize(*Session, input.KeyEvent) error { return assert.AnError }

func TestDispatch_FailedInitializeFallsBackToIdle(t *testing.T) {
	var logs bytes.Buffer
	reg := NewRegistry(NewIdle(), &failingTool{toolBase{id: "broken"}})
	s, _ := newTestSession(t,
		WithRegistry(reg),
		WithBindings(Bindings{input.KeyRune('b'): "broken"}),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	s.PushKey(press(input.KeyRune('b')))

	r := s.Dispatch()

	assert.Equal(t, ToolIdle, r.To)
	assert.Contains(t, logs.String(), "tool activation failed")
	assert.Contains(t, logs.String(), "broken")
}

func TestDispatch_UnknownBindingIgnored(t *testing.T) {
	s, _ := newTestSession(t, WithBindings(Bindings{input.KeyRune('x'): "missing"}))
	s.PushKey(press(input.KeyRune('x')))

	assert.Equal(t, ToolIdle, s.Dispatch().To)
}

func TestDispatch_TicksAreMonotonic(t *testing.T) {
	s, _ := newTestSession(t)
	for i := int64(1); i <= 5; i++ {
		assert.Equal(t, i, s.Dispatch().Tick)
	}
	assert.Equal(t, int64(5), s.Tick())
}

func TestDispatch_ConsumesOneEventOfEachKindPerTick(t *testing.T) {
	s, _ := newTestSession(t)
	s.PushKey(press(input.KeyRune('q')))
	s.PushKey(press(input.KeyRune('w')))
	s.PushMouse(mouseMove(1, 1))
	s.PushMouse(mouseMove(2, 2))

	s.Dispatch()
	keys, mouse := s.Pending()
	assert.Equal(t, 1, keys)
	assert.Equal(t, 1, mouse)
}
