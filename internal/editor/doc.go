// Package editor implements the editor session and the tool state machine
// that routes buffered input to the active tool.
//
// # Single Owner
//
// A Session is driven by one execution context. One frame is:
//
//  1. the platform layer pushes raw events with PushKey / PushMouse
//  2. Dispatch runs once, consuming at most one key and one mouse event
//  3. the renderer reads Document and View
//
// Nothing here blocks and nothing is locked. Tools mutate the session only
// from inside Dispatch.
//
// # Tools
//
// Every tool satisfies Tool and opts into any of the handler interfaces
// (KeyDownHandler, MouseMoveHandler, Initializer, ...). The Registry holds
// one template per ToolID for the lifetime of the process. Per-activation
// state is allocated by Initialize and released by Destroy; between
// activations it is nil.
//
// # Dispatch
//
// Per tick:
//
//  1. The front key event goes to the active tool's handler for its action.
//     A true result means the tool consumed it.
//  2. An unconsumed key press while Idle is looked up in the bindings table
//     to pick a candidate tool.
//  3. On a transition the current tool is destroyed and the candidate is
//     initialized; a failed Initialize leaves the session Idle.
//  4. The key event is always removed from its queue.
//  5. Without a transition, the front mouse event is routed by action
//     (scroll is ignored) and removed.
//  6. Without a transition, a non-Idle tool that raised WantsDestroy is
//     destroyed and the session reverts to Idle.
package editor
