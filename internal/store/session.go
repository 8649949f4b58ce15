package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord is one editor session.
type SessionRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time // zero while the session is open
	Snapshots int
}

// Open reports whether the session has not been ended. A session left
// open by a crashed process stays open.
func (r SessionRecord) Open() bool { return r.EndedAt.IsZero() }

// BeginSession records the start of a session.
// Uses ON CONFLICT(id) DO NOTHING - beginning the same session twice is a no-op.
func (s *Store) BeginSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, s.timestamp())
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// EndSession marks a session finished. Ending an unknown session returns
// ErrNotFound.
func (s *Store) EndSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL
	`, s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("end session %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("end session: %w", err)
		}
	}
	return nil
}

// Sessions returns up to limit sessions, newest first. A limit <= 0 means
// no limit.
func (s *Store) Sessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, s.ended_at, COUNT(n.id)
		FROM sessions s
		LEFT JOIN snapshots n ON n.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC, s.id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	records := []SessionRecord{}
	for rows.Next() {
		var (
			r       SessionRecord
			started int64
			ended   sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &started, &ended, &r.Snapshots); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			r.EndedAt = time.UnixMilli(ended.Int64)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}
