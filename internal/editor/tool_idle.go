package editor

// Idle is the default tool. It has no handlers and no state, so every key
// press it sees goes to the activation table.
type Idle struct{}

// NewIdle returns the Idle tool.
func NewIdle() *Idle { return &Idle{} }

func (*Idle) ID() ToolID         { return ToolIdle }
func (*Idle) WantsDestroy() bool { return false }
