// Package input defines the raw keyboard and mouse events delivered by the
// platform layer and the FIFO queues that buffer them until the editor's
// dispatcher consumes them.
//
// Queues are owned by a single execution context (the editor loop). They
// carry no locks: the platform layer pushes from the same goroutine that
// later dispatches, once per frame.
package input
