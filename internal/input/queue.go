package input

import (
	"io"
	"log/slog"
)

// Queue is an unbounded FIFO of events.
//
// Consuming or peeking an empty queue is not an error: Peek reports false
// and Consume logs a warning and reports false.
type Queue[T any] struct {
	name   string
	events []T
	logger *slog.Logger
}

// NewQueue creates an empty queue. name appears in log records; a nil
// logger discards them.
func NewQueue[T any](name string, logger *slog.Logger) *Queue[T] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Queue[T]{
		name:   name,
		events: make([]T, 0, 16),
		logger: logger,
	}
}

// Push appends e at the back.
func (q *Queue[T]) Push(e T) {
	q.events = append(q.events, e)
}

// Peek returns the front element without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.events) == 0 {
		var zero T
		return zero, false
	}
	return q.events[0], true
}

// Consume removes the front element. It returns false, after logging a
// warning, when the queue is already empty.
func (q *Queue[T]) Consume() bool {
	if len(q.events) == 0 {
		q.logger.Warn("consume on empty queue", "queue", q.name)
		return false
	}

	// Zero the slot so the backing array does not pin the event.
	var zero T
	q.events[0] = zero

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return true
}

// Pop removes and returns the front element.
func (q *Queue[T]) Pop() (T, bool) {
	e, ok := q.Peek()
	if ok {
		q.Consume()
	}
	return e, ok
}

// Len returns the number of queued events.
func (q *Queue[T]) Len() int {
	return len(q.events)
}

// Drain removes and returns every queued event in order.
func (q *Queue[T]) Drain() []T {
	out := make([]T, len(q.events))
	copy(out, q.events)
	clear(q.events)
	q.events = q.events[:0]
	return out
}

// Name returns the queue's log name.
func (q *Queue[T]) Name() string {
	return q.name
}
