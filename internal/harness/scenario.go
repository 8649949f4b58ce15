package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
	"github.com/pixed/pixed/internal/input"
)

// Scenario is a scripted input sequence with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionID fixes the session id. Defaults to testutil.DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`

	// Document is the canvas the session edits. Omit to run without one.
	Document *DocumentSetup `yaml:"document,omitempty"`

	// View is the initial view transform and zoom limits.
	View ViewSetup `yaml:"view,omitempty"`

	// Bindings replaces the default activation table (key name to tool).
	Bindings map[string]string `yaml:"bindings,omitempty"`

	// Color is the initial drawing color.
	Color string `yaml:"color,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Expect     *Expect     `yaml:"expect,omitempty"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DocumentSetup describes the initial canvas.
type DocumentSetup struct {
	Name   string      `yaml:"name"`
	Width  uint32      `yaml:"width"`
	Height uint32      `yaml:"height"`
	Fill   string      `yaml:"fill,omitempty"`
	Pixels []PixelSpec `yaml:"pixels,omitempty"`
}

// PixelSpec is one canvas cell, used both to seed the document and to
// check it afterwards.
type PixelSpec struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Color string `yaml:"color"`
}

// ViewSetup is the initial view. Zero values keep the editor defaults.
type ViewSetup struct {
	Zoom    float64 `yaml:"zoom,omitempty"`
	MinZoom float64 `yaml:"min_zoom,omitempty"`
	MaxZoom float64 `yaml:"max_zoom,omitempty"`
	PanX    float64 `yaml:"pan_x,omitempty"`
	PanY    float64 `yaml:"pan_y,omitempty"`
}

func (v ViewSetup) isSet() bool {
	return v.Zoom != 0 || v.MinZoom != 0 || v.MaxZoom != 0
}

// zoomLimits returns the zoom and its bounds with editor defaults
// substituted for zero values.
func (v ViewSetup) zoomLimits() (zoom, lo, hi float64) {
	zoom, lo, hi = v.Zoom, v.MinZoom, v.MaxZoom
	if zoom == 0 {
		zoom = editor.DefaultZoom
	}
	if lo == 0 {
		lo = editor.DefaultMinZoom
	}
	if hi == 0 {
		hi = editor.DefaultMaxZoom
	}
	return zoom, lo, hi
}

func validateView(v ViewSetup) error {
	if v.Zoom < 0 || v.MinZoom < 0 || v.MaxZoom < 0 {
		return fmt.Errorf("view: zoom values must be positive")
	}
	zoom, lo, hi := v.zoomLimits()
	if lo > hi {
		return fmt.Errorf("view: min_zoom %g exceeds max_zoom %g", lo, hi)
	}
	if zoom < lo || zoom > hi {
		return fmt.Errorf("view: zoom %g outside [%g, %g]", zoom, lo, hi)
	}
	return nil
}

// Step is exactly one of Key, Mouse or Tick.
type Step struct {
	Key   *KeyStep   `yaml:"key,omitempty"`
	Mouse *MouseStep `yaml:"mouse,omitempty"`
	Tick  int        `yaml:"tick,omitempty"`
}

// KeyStep enqueues a key event.
type KeyStep struct {
	Key    string `yaml:"key"`
	Action string `yaml:"action"`
}

// MouseStep enqueues a mouse event.
type MouseStep struct {
	Action string `yaml:"action"`
	Button string `yaml:"button,omitempty"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	DX     int    `yaml:"dx,omitempty"`
	DY     int    `yaml:"dy,omitempty"`
}

// Expect checks the session state after the last step. Nil fields are not
// checked.
type Expect struct {
	Tool   *string     `yaml:"tool,omitempty"`
	PanX   *float64    `yaml:"pan_x,omitempty"`
	PanY   *float64    `yaml:"pan_y,omitempty"`
	Zoom   *float64    `yaml:"zoom,omitempty"`
	Color  *string     `yaml:"color,omitempty"`
	Dirty  *bool       `yaml:"dirty,omitempty"`
	Pixels []PixelSpec `yaml:"pixels,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type is one of tool_order, switch_count or tick_tool.
	Type string `yaml:"type"`

	// Tools is the expected activation order (tool_order).
	Tools []string `yaml:"tools,omitempty"`

	// Count is the expected number of tool switches (switch_count).
	Count int `yaml:"count,omitempty"`

	// Tick and Tool name the tool active after a tick (tick_tool).
	Tick int64  `yaml:"tick,omitempty"`
	Tool string `yaml:"tool,omitempty"`
}

// Assertion type constants.
const (
	AssertToolOrder   = "tool_order"
	AssertSwitchCount = "switch_count"
	AssertTickTool    = "tick_tool"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and that every name in the
// scenario parses.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if d := s.Document; d != nil {
		if d.Fill != "" {
			if _, err := document.ParseColor(d.Fill); err != nil {
				return fmt.Errorf("document.fill: %w", err)
			}
		}
		for i, p := range d.Pixels {
			if _, err := document.ParseColor(p.Color); err != nil {
				return fmt.Errorf("document.pixels[%d]: %w", i, err)
			}
		}
	}
	if err := validateView(s.View); err != nil {
		return err
	}
	if s.Color != "" {
		if _, err := document.ParseColor(s.Color); err != nil {
			return fmt.Errorf("color: %w", err)
		}
	}
	for name := range s.Bindings {
		if _, err := input.ParseKey(name); err != nil {
			return fmt.Errorf("bindings: %w", err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	if e := s.Expect; e != nil {
		if e.Color != nil {
			if _, err := document.ParseColor(*e.Color); err != nil {
				return fmt.Errorf("expect.color: %w", err)
			}
		}
		for i, p := range e.Pixels {
			if _, err := document.ParseColor(p.Color); err != nil {
				return fmt.Errorf("expect.pixels[%d]: %w", i, err)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	set := 0
	if step.Key != nil {
		set++
	}
	if step.Mouse != nil {
		set++
	}
	if step.Tick != 0 {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of key, mouse or tick is required", i)
	}

	switch {
	case step.Key != nil:
		if _, err := input.ParseKey(step.Key.Key); err != nil {
			return fmt.Errorf("steps[%d].key: %w", i, err)
		}
		if _, err := input.ParseKeyAction(step.Key.Action); err != nil {
			return fmt.Errorf("steps[%d].key: %w", i, err)
		}
	case step.Mouse != nil:
		if _, err := input.ParseMouseAction(step.Mouse.Action); err != nil {
			return fmt.Errorf("steps[%d].mouse: %w", i, err)
		}
		if _, err := input.ParseButton(step.Mouse.Button); err != nil {
			return fmt.Errorf("steps[%d].mouse: %w", i, err)
		}
	case step.Tick < 0:
		return fmt.Errorf("steps[%d]: tick must be positive", i)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertToolOrder:
		if len(a.Tools) == 0 {
			return fmt.Errorf("assertions[%d]: tools list is required for tool_order", index)
		}
	case AssertSwitchCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for switch_count", index)
		}
	case AssertTickTool:
		if a.Tick <= 0 || a.Tool == "" {
			return fmt.Errorf("assertions[%d]: tick and tool are required for tick_tool", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
