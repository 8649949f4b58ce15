// Package harness replays scripted input against an editor session and
// checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: pan_hold
//	description: "Holding space pans while dragging"
//	session_id: test-session-pan
//	document: {name: Untitled, width: 16, height: 16, fill: "#ffffffff"}
//	view: {zoom: 1, pan_x: 0, pan_y: 0}
//	steps:
//	  - key: {key: space, action: press}
//	  - tick: 1
//	  - mouse: {action: down, button: left, x: 10, y: 10}
//	  - mouse: {action: move, x: 15, y: 20}
//	  - tick: 2
//	expect:
//	  tool: pan
//	  pan_x: 5
//	  pan_y: 10
//	assertions:
//	  - type: tool_order
//	    tools: [idle, pan]
//
// Key and mouse steps only enqueue events; a tick step runs Dispatch the
// given number of times. Unknown fields are rejected.
//
// # Assertion Types
//
//   - tool_order: the listed tools become active in this order
//   - switch_count: the active tool changes exactly count times
//   - tick_tool: the tool active after tick is tool
//
// # Deterministic Testing
//
// Every run uses a fixed session id, a logical tick clock starting at 0, a
// discarding logger and a private in-memory history store, so the same
// scenario always yields a byte-identical trace for golden comparison.
package harness
