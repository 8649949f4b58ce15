package editor

import (
	"errors"
	"fmt"
)

// ErrNoState is returned by tool handlers invoked while the tool has no
// per-activation state (it was never initialized or already destroyed).
var ErrNoState = errors.New("tool has no state")

// ToolError wraps a failure of a tool lifecycle hook.
type ToolError struct {
	Tool ToolID
	Op   string // "initialize" or "destroy"
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %s: %v", e.Tool, e.Op, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
