package harness

import (
	"fmt"
	"strings"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Trace    []TraceTick // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, t := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s", t.Tick, t.Tool)
		if t.Key != "" {
			fmt.Fprintf(&buf, " key=%s", t.Key)
		}
		if t.Mouse != "" {
			fmt.Fprintf(&buf, " mouse=%s", t.Mouse)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertToolOrder:
			err = assertToolOrder(result.Trace, a)
		case AssertSwitchCount:
			err = assertSwitchCount(result.Trace, a)
		case AssertTickTool:
			err = assertTickTool(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// activations returns the active tool sequence with consecutive repeats
// collapsed. Every session starts Idle.
func activations(trace []TraceTick) []string {
	seq := []string{string(editor.ToolIdle)}
	for _, t := range trace {
		if seq[len(seq)-1] != t.Tool {
			seq = append(seq, t.Tool)
		}
	}
	return seq
}

// assertToolOrder checks the tools become active in the given order.
// Other activations may intervene.
func assertToolOrder(trace []TraceTick, a Assertion) error {
	seq := activations(trace)
	next := 0
	for _, tool := range seq {
		if next < len(a.Tools) && tool == a.Tools[next] {
			next++
		}
	}
	if next == len(a.Tools) {
		return nil
	}
	return &AssertionError{
		Type:     AssertToolOrder,
		Expected: strings.Join(a.Tools, " -> "),
		Actual:   strings.Join(seq, " -> "),
		Trace:    trace,
	}
}

func assertSwitchCount(trace []TraceTick, a Assertion) error {
	n := len(activations(trace)) - 1
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertSwitchCount,
		Expected: fmt.Sprintf("%d tool switches", a.Count),
		Actual:   fmt.Sprintf("%d tool switches", n),
		Trace:    trace,
	}
}

func assertTickTool(trace []TraceTick, a Assertion) error {
	for _, t := range trace {
		if t.Tick != a.Tick {
			continue
		}
		if t.Tool == a.Tool {
			return nil
		}
		return &AssertionError{
			Type:     AssertTickTool,
			Expected: fmt.Sprintf("%s after tick %d", a.Tool, a.Tick),
			Actual:   t.Tool,
			Trace:    trace,
		}
	}
	return &AssertionError{
		Type:     AssertTickTool,
		Expected: fmt.Sprintf("%s after tick %d", a.Tool, a.Tick),
		Actual:   fmt.Sprintf("tick %d never ran", a.Tick),
		Trace:    trace,
	}
}

// checkExpect compares the session against the expected final state.
func checkExpect(s *editor.Session, e *Expect) []string {
	var errs []string
	v := s.View()

	if e.Tool != nil && string(s.ActiveTool().ID()) != *e.Tool {
		errs = append(errs, fmt.Sprintf("expect.tool: got %s, want %s", s.ActiveTool().ID(), *e.Tool))
	}
	if e.PanX != nil && v.PanX != *e.PanX {
		errs = append(errs, fmt.Sprintf("expect.pan_x: got %g, want %g", v.PanX, *e.PanX))
	}
	if e.PanY != nil && v.PanY != *e.PanY {
		errs = append(errs, fmt.Sprintf("expect.pan_y: got %g, want %g", v.PanY, *e.PanY))
	}
	if e.Zoom != nil && v.Zoom != *e.Zoom {
		errs = append(errs, fmt.Sprintf("expect.zoom: got %g, want %g", v.Zoom, *e.Zoom))
	}
	if e.Color != nil {
		want, _ := document.ParseColor(*e.Color)
		if s.Color() != want {
			errs = append(errs, fmt.Sprintf("expect.color: got %s, want %s", s.Color(), want))
		}
	}
	if e.Dirty != nil && s.Dirty() != *e.Dirty {
		errs = append(errs, fmt.Sprintf("expect.dirty: got %t, want %t", s.Dirty(), *e.Dirty))
	}

	if len(e.Pixels) == 0 {
		return errs
	}
	doc := s.Document()
	if doc == nil {
		return append(errs, "expect.pixels: session has no document")
	}
	for i, p := range e.Pixels {
		want, _ := document.ParseColor(p.Color)
		got, err := doc.Pixel(p.X, p.Y)
		if err != nil {
			errs = append(errs, fmt.Sprintf("expect.pixels[%d]: %v", i, err))
			continue
		}
		if got != want {
			errs = append(errs, fmt.Sprintf("expect.pixels[%d]: (%d,%d) got %s, want %s", i, p.X, p.Y, got, want))
		}
	}
	return errs
}
