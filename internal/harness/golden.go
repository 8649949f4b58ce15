package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the complete trace for a scenario execution:
// one entry per dispatch tick plus the session state after the last step.
// It is the document stored in golden files.
type TraceSnapshot struct {
	ScenarioName string      `json:"scenario_name"`
	SessionID    string      `json:"session_id"`
	Trace        []TraceTick `json:"trace"`
	Final        FinalState  `json:"final"`
}

// MarshalTrace renders a result as the indented JSON stored in golden
// files. Field order is fixed by the struct definitions and the session
// id comes from the scenario, so the bytes are identical across runs.
// A trailing newline keeps golden files friendly to editors and diff.
func MarshalTrace(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		SessionID:    result.SessionID,
		Trace:        result.Trace,
		Final:        result.Final,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the reference for how input maps to tool transitions:
// a changed trace means dispatch behaviour changed and must be reviewed
// before the file is regenerated.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's trace against a golden file
// named after the scenario. It returns an error only when the trace
// cannot be marshalled; mismatches fail t through goldie.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	// goldie registers the -update flag and rewrites the fixture when set.
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
