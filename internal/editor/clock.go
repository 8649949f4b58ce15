package editor

import "sync/atomic"

// Clock is the logical tick counter of a session. Dispatch stamps every
// tick with Next; nothing in the editor reads wall-clock time for ordering.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next tick is start+1. Used when a
// session resumes from a snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new tick.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last tick handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
