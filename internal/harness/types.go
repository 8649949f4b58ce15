package harness

// TraceTick records one Dispatch call and the view after it.
type TraceTick struct {
	Tick     int64   `json:"tick"`
	Tool     string  `json:"tool"`
	Key      string  `json:"key,omitempty"`
	Consumed bool    `json:"consumed,omitempty"`
	Mouse    string  `json:"mouse,omitempty"`
	PanX     float64 `json:"pan_x"`
	PanY     float64 `json:"pan_y"`
	Zoom     float64 `json:"zoom"`
}

// FinalState is the session state after the last step.
type FinalState struct {
	Tool  string  `json:"tool"`
	PanX  float64 `json:"pan_x"`
	PanY  float64 `json:"pan_y"`
	Zoom  float64 `json:"zoom"`
	Color string  `json:"color"`
	Dirty bool    `json:"dirty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// SessionID is the id the session ran under.
	SessionID string `json:"session_id"`

	// Trace has one entry per dispatch tick, in order.
	Trace []TraceTick `json:"trace"`

	// Final is the session state after the last step.
	Final FinalState `json:"final"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceTick{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTick appends a trace entry.
func (r *Result) AddTick(t TraceTick) {
	r.Trace = append(r.Trace, t)
}
