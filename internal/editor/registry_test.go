package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixed/pixed/internal/input"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []ToolID{ToolIdle, ToolPan, ToolPencil, ToolPicker, ToolZoom}, r.IDs())
	assert.Equal(t, ToolIdle, r.Idle().ID())

	_, ok := r.Get("brush")
	assert.False(t, ok)
}

func TestNewRegistry_AddsIdle(t *testing.T) {
	r := NewRegistry(NewPan())

	assert.Equal(t, []ToolID{ToolIdle, ToolPan}, r.IDs())
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { NewRegistry(NewPan(), NewPan()) })
}

func TestBindings_Validate(t *testing.T) {
	r := DefaultRegistry()

	require.NoError(t, DefaultBindings().Validate(r))

	err := Bindings{input.KeySpace: ToolIdle}.Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idle")

	err = Bindings{input.KeyRune('b'): "brush"}.Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brush")
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	assert.Equal(t, int64(11), NewClockAt(10).Next())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator_Sortable(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
