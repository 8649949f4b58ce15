package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, file)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_PanHoldProperty(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/pan_hold.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 5)
	assert.Equal(t, "pan", result.Trace[0].Tool)
	assert.Empty(t, result.Trace[0].Mouse, "mouse is not routed on the activation tick")
	assert.Equal(t, "idle", result.Trace[4].Tool)
	assert.True(t, result.Trace[4].Consumed)
}

func TestRun_FailedExpectations(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong",
		Description: "expects pan but nothing activates it",
		Steps: []Step{
			{Key: &KeyStep{Key: "q", Action: "press"}},
			{Tick: 1},
		},
		Expect: &Expect{Tool: strPtr("pan"), Zoom: floatPtr(3)},
		Assertions: []Assertion{
			{Type: AssertSwitchCount, Count: 1},
			{Type: AssertTickTool, Tick: 9, Tool: "idle"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "expect.tool")
	assert.Contains(t, result.Errors[1], "expect.zoom")
	assert.Contains(t, result.Errors[2], "switch_count")
	assert.Contains(t, result.Errors[3], "never ran")
}

func TestRun_PixelExpectationWithoutDocument(t *testing.T) {
	scenario := &Scenario{
		Name:        "nodoc",
		Description: "pencil needs a document",
		Steps: []Step{
			{Key: &KeyStep{Key: "p", Action: "press"}},
			{Tick: 1},
		},
		Expect: &Expect{
			Tool:   strPtr("idle"),
			Pixels: []PixelSpec{{X: 0, Y: 0, Color: "#000000"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, []string{"expect.pixels: session has no document"}, result.Errors)
}

func TestRun_SeededPixelsAndPicker(t *testing.T) {
	scenario := &Scenario{
		Name:        "picker",
		Description: "picker copies a seeded pixel",
		Document: &DocumentSetup{
			Width: 4, Height: 4,
			Pixels: []PixelSpec{{X: 2, Y: 3, Color: "#12345678"}},
		},
		View: ViewSetup{Zoom: 1},
		Steps: []Step{
			{Key: &KeyStep{Key: "i", Action: "press"}},
			{Mouse: &MouseStep{Action: "down", Button: "left", X: 2, Y: 3}},
			{Tick: 2},
		},
		Expect: &Expect{Tool: strPtr("idle"), Color: strPtr("#12345678"), Dirty: boolPtr(false)},
		Assertions: []Assertion{
			{Type: AssertToolOrder, Tools: []string{"idle", "picker", "idle"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "#12345678", result.Final.Color)
}

func TestRun_CustomBindings(t *testing.T) {
	scenario := &Scenario{
		Name:        "bindings",
		Description: "b activates pan when rebound",
		Bindings:    map[string]string{"b": "pan"},
		Steps: []Step{
			{Key: &KeyStep{Key: "space", Action: "press"}},
			{Key: &KeyStep{Key: "b", Action: "press"}},
			{Tick: 2},
		},
		Expect: &Expect{Tool: strPtr("pan")},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "idle", result.Trace[0].Tool)
}

func TestRun_InvalidBindings(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "unknown tool",
		Bindings:    map[string]string{"b": "brush"},
		Steps:       []Step{{Tick: 1}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brush")
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: a\ndescription: b\nstepz: []\n", "field stepz not found"},
		{"no name", "description: b\nsteps: [{tick: 1}]\n", "name is required"},
		{"no steps", "name: a\ndescription: b\n", "steps list is required"},
		{"empty step", "name: a\ndescription: b\nsteps: [{}]\n", "exactly one of"},
		{"two kinds", "name: a\ndescription: b\nsteps: [{tick: 1, key: {key: a, action: press}}]\n", "exactly one of"},
		{"bad key", "name: a\ndescription: b\nsteps: [{key: {key: hyper, action: press}}]\n", "unknown key"},
		{"bad action", "name: a\ndescription: b\nsteps: [{key: {key: a, action: hold}}]\n", "unknown key action"},
		{"bad button", "name: a\ndescription: b\nsteps: [{mouse: {action: down, button: thumb}}]\n", "unknown mouse button"},
		{"negative tick", "name: a\ndescription: b\nsteps: [{tick: -1}]\n", "tick must be positive"},
		{"negative zoom", "name: a\ndescription: b\nview: {zoom: -2}\nsteps: [{tick: 1}]\n", "must be positive"},
		{"negative min zoom", "name: a\ndescription: b\nview: {min_zoom: -1}\nsteps: [{tick: 1}]\n", "must be positive"},
		{"min above max", "name: a\ndescription: b\nview: {zoom: 4, min_zoom: 8, max_zoom: 4}\nsteps: [{tick: 1}]\n", "min_zoom 8 exceeds max_zoom 4"},
		{"zoom above default max", "name: a\ndescription: b\nview: {zoom: 100}\nsteps: [{tick: 1}]\n", "zoom 100 outside [1, 64]"},
		{"bad fill", "name: a\ndescription: b\ndocument: {width: 1, height: 1, fill: red}\nsteps: [{tick: 1}]\n", "document.fill"},
		{"bad assertion", "name: a\ndescription: b\nsteps: [{tick: 1}]\nassertions: [{type: trace_contains}]\n", "unknown assertion type"},
		{"tool_order needs tools", "name: a\ndescription: b\nsteps: [{tick: 1}]\nassertions: [{type: tool_order}]\n", "tools list is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "p*")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "pan_hold.yaml", filepath.Base(files[0]))
	assert.Equal(t, "pencil_stroke.yaml", filepath.Base(files[1]))

	_, err = FindScenarios(filepath.Join(t.TempDir(), "missing"), "")
	var notFound *ScenarioDirNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = FindScenarios("testdata/scenarios", "[")
	assert.Error(t, err)
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t, filepath.Join("scen", "golden", "pan.golden"), GoldenPath(filepath.Join("scen", "pan.yaml")))
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertToolOrder,
		Expected: "idle -> pan",
		Actual:   "idle",
		Trace:    []TraceTick{{Tick: 1, Tool: "idle", Key: "q:press"}},
	}

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "Assertion failed: tool_order"))
	assert.Contains(t, msg, "[1] idle key=q:press")
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
