// Package term is the terminal front end of the editor: it feeds tcell
// events into an editor session and draws the session with half-block
// characters.
//
// The renderer works in a coordinate space one unit per terminal column
// and two units per terminal row, so every cell shows two vertically
// stacked canvas samples. Mouse positions are reported in the same space.
//
// Terminals report key presses but not releases. Keys whose tool
// deactivates on release (see editor.Session.HoldKeys) therefore latch: the
// first press is delivered as a press and the next press as a release.
package term
