// Package store provides SQLite-backed editor history.
//
// It records:
//   - Sessions: one row per editor session, keyed by its UUIDv7 id
//   - Recent documents: paths opened or saved, most recent first
//   - Snapshots: PiXd-encoded canvases written during a session, used to
//     recover unsaved work after a crash
//
// Snapshot order is the insertion id, never wall-clock time. Timestamps are
// stored as Unix milliseconds.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Snapshots are removed with their session
package store
