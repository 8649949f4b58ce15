package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
	"github.com/pixed/pixed/internal/input"
	"github.com/pixed/pixed/internal/store"
	"github.com/pixed/pixed/internal/testutil"
)

// Harness drives one scenario against an editor session.
type Harness struct {
	session *editor.Session
	store   *store.Store
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory history store for isolation.
// Execution flow:
//  1. Build the document and session from the scenario
//  2. Apply steps: enqueue key and mouse events, dispatch on tick steps
//  3. Snapshot the canvas through the store and read it back
//  4. Check expectations and assertions
//
// Run returns an error only when the scenario cannot be executed; failed
// expectations are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithClock(testutil.NewStepClock().Now))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session, err := newSession(scenario, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	h := &Harness{session: session, store: st, logger: logger}
	ctx := context.Background()

	if err := st.BeginSession(ctx, session.ID()); err != nil {
		return nil, err
	}

	result := NewResult()
	result.SessionID = session.ID()
	if err := h.executeSteps(scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}
	result.Final = finalState(session)

	if err := h.checkSnapshot(ctx, result); err != nil {
		return nil, err
	}
	if err := st.EndSession(ctx, session.ID()); err != nil {
		return nil, err
	}

	if scenario.Expect != nil {
		for _, msg := range checkExpect(session, scenario.Expect) {
			result.AddError(msg)
		}
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func newSession(scenario *Scenario, logger *slog.Logger) (*editor.Session, error) {
	var doc *document.Document
	if d := scenario.Document; d != nil {
		var err error
		if doc, err = buildDocument(d); err != nil {
			return nil, err
		}
	}

	opts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithIDGenerator(testutil.NewFixedSessionGenerator(scenario.SessionID)),
	}

	if v := scenario.View; v.isSet() {
		opts = append(opts, editor.WithZoom(v.zoomLimits()))
	}

	if len(scenario.Bindings) > 0 {
		b := make(editor.Bindings, len(scenario.Bindings))
		for name, tool := range scenario.Bindings {
			key, err := input.ParseKey(name)
			if err != nil {
				return nil, err
			}
			b[key] = editor.ToolID(tool)
		}
		if err := b.Validate(editor.DefaultRegistry()); err != nil {
			return nil, fmt.Errorf("bindings: %w", err)
		}
		opts = append(opts, editor.WithBindings(b))
	}

	if scenario.Color != "" {
		c, err := document.ParseColor(scenario.Color)
		if err != nil {
			return nil, err
		}
		opts = append(opts, editor.WithColor(c))
	}

	s := editor.New(doc, opts...)
	s.SetPan(scenario.View.PanX, scenario.View.PanY)
	return s, nil
}

func buildDocument(d *DocumentSetup) (*document.Document, error) {
	name := d.Name
	if name == "" {
		name = "Untitled"
	}
	doc, err := document.New(name, d.Width, d.Height)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if d.Fill != "" {
		c, err := document.ParseColor(d.Fill)
		if err != nil {
			return nil, fmt.Errorf("document.fill: %w", err)
		}
		doc.Fill(c)
	}
	for i, p := range d.Pixels {
		c, err := document.ParseColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("document.pixels[%d]: %w", i, err)
		}
		if err := doc.SetPixel(p.X, p.Y, c); err != nil {
			return nil, fmt.Errorf("document.pixels[%d]: %w", i, err)
		}
	}
	return doc, nil
}

// executeSteps applies the scenario steps in order.
func (h *Harness) executeSteps(steps []Step, result *Result) error {
	for i, step := range steps {
		switch {
		case step.Key != nil:
			ev, err := keyEvent(step.Key)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			h.session.PushKey(ev)
		case step.Mouse != nil:
			ev, err := mouseEvent(step.Mouse)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			h.session.PushMouse(ev)
		default:
			for n := 0; n < step.Tick; n++ {
				result.AddTick(h.tick())
			}
		}
	}
	return nil
}

func (h *Harness) tick() TraceTick {
	r := h.session.Dispatch()
	v := h.session.View()
	t := TraceTick{
		Tick:     r.Tick,
		Tool:     string(r.To),
		Consumed: r.KeyConsumed,
		PanX:     v.PanX,
		PanY:     v.PanY,
		Zoom:     v.Zoom,
	}
	if r.Key != nil {
		t.Key = r.Key.String()
	}
	if r.Mouse != nil {
		t.Mouse = r.Mouse.String()
	}
	h.logger.Debug("tick", "tick", t.Tick, "tool", t.Tool, "key", t.Key, "mouse", t.Mouse)
	return t
}

// checkSnapshot writes the canvas to the store and verifies that the copy
// read back matches the live document.
func (h *Harness) checkSnapshot(ctx context.Context, result *Result) error {
	doc := h.session.Document()
	if doc == nil {
		return nil
	}
	if _, err := h.store.WriteSnapshot(ctx, h.session.ID(), h.session.Tick(), doc); err != nil {
		return err
	}
	snap, err := h.store.LatestSnapshot(ctx, h.session.ID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			result.AddError("snapshot: not stored")
			return nil
		}
		return err
	}
	if !equalCanvas(snap.Document, doc) {
		result.AddError("snapshot: stored canvas differs from session canvas")
	}
	return nil
}

func equalCanvas(a, b *document.Document) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	ac, bc := a.Canvas(), b.Canvas()
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

func keyEvent(k *KeyStep) (input.KeyEvent, error) {
	key, err := input.ParseKey(k.Key)
	if err != nil {
		return input.KeyEvent{}, err
	}
	action, err := input.ParseKeyAction(k.Action)
	if err != nil {
		return input.KeyEvent{}, err
	}
	return input.KeyEvent{Key: key, Action: action}, nil
}

func mouseEvent(m *MouseStep) (input.MouseEvent, error) {
	action, err := input.ParseMouseAction(m.Action)
	if err != nil {
		return input.MouseEvent{}, err
	}
	button, err := input.ParseButton(m.Button)
	if err != nil {
		return input.MouseEvent{}, err
	}
	return input.MouseEvent{Action: action, Button: button, X: m.X, Y: m.Y, DX: m.DX, DY: m.DY}, nil
}

func finalState(s *editor.Session) FinalState {
	v := s.View()
	return FinalState{
		Tool:  string(s.ActiveTool().ID()),
		PanX:  v.PanX,
		PanY:  v.PanY,
		Zoom:  v.Zoom,
		Color: s.Color().String(),
		Dirty: s.Dirty(),
	}
}
