package editor

import (
	"fmt"
	"sort"

	"github.com/pixed/pixed/internal/input"
)

// Registry holds the single template instance of each tool variant.
type Registry struct {
	tools map[ToolID]Tool
}

// NewRegistry builds a registry from tool templates. An Idle tool is added
// when none is given. Duplicate IDs panic: the tool set is fixed at startup.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[ToolID]Tool, len(tools)+1)}
	for _, t := range tools {
		if _, dup := r.tools[t.ID()]; dup {
			panic(fmt.Sprintf("editor: duplicate tool %q", t.ID()))
		}
		r.tools[t.ID()] = t
	}
	if _, ok := r.tools[ToolIdle]; !ok {
		r.tools[ToolIdle] = NewIdle()
	}
	return r
}

// DefaultRegistry returns a registry with every built-in tool.
func DefaultRegistry() *Registry {
	return NewRegistry(NewIdle(), NewPan(), NewPencil(), NewPicker(), NewZoom())
}

// Get returns the template for id.
func (r *Registry) Get(id ToolID) (Tool, bool) {
	t, ok := r.tools[id]
	return t, ok
}

// Idle returns the Idle template.
func (r *Registry) Idle() Tool {
	return r.tools[ToolIdle]
}

// IDs returns the registered tool ids in sorted order.
func (r *Registry) IDs() []ToolID {
	ids := make([]ToolID, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Bindings is the activation table consulted while Idle: a key press maps
// to the tool it activates.
type Bindings map[input.Key]ToolID

// DefaultBindings maps space to Pan plus one letter per supplemental tool.
func DefaultBindings() Bindings {
	return Bindings{
		input.KeySpace:     ToolPan,
		input.KeyRune('p'): ToolPencil,
		input.KeyRune('i'): ToolPicker,
		input.KeyRune('z'): ToolZoom,
	}
}

// Validate checks that every binding names a registered, non-Idle tool.
func (b Bindings) Validate(r *Registry) error {
	for key, id := range b {
		if id == ToolIdle {
			return fmt.Errorf("binding %s: cannot bind the idle tool", key)
		}
		if _, ok := r.Get(id); !ok {
			return fmt.Errorf("binding %s: unknown tool %q", key, id)
		}
	}
	return nil
}

// Clone returns a copy of b.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
