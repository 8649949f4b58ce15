package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pixed/pixed/internal/document"
)

// Snapshot is a stored copy of a session's canvas.
type Snapshot struct {
	ID        int64
	SessionID string
	Tick      int64
	CreatedAt time.Time
	Document  *document.Document
}

// WriteSnapshot stores doc, encoded as PiXd, against the session and the
// dispatch tick it was taken at. The session must exist.
func (s *Store) WriteSnapshot(ctx context.Context, sessionID string, tick int64, doc *document.Document) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(int(document.EncodedSize(doc.Width(), doc.Height())))
	if err := document.Encode(&buf, doc); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (session_id, tick, created_at, name, width, height, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sessionID, tick, s.timestamp(), doc.Name(), doc.Width(), doc.Height(), buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot of sessionID, or of any
// session when sessionID is empty. It returns ErrNotFound when there is none.
func (s *Store) LatestSnapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	query := `
		SELECT id, session_id, tick, created_at, name, data
		FROM snapshots
		ORDER BY id DESC
		LIMIT 1
	`
	var args []any
	if sessionID != "" {
		query = `
			SELECT id, session_id, tick, created_at, name, data
			FROM snapshots
			WHERE session_id = ?
			ORDER BY id DESC
			LIMIT 1
		`
		args = append(args, sessionID)
	}

	var (
		snap    Snapshot
		created int64
		name    string
		data    []byte
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.SessionID, &snap.Tick, &created, &name, &data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("latest snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}

	doc, err := document.Decode(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", snap.ID, err)
	}
	snap.CreatedAt = time.UnixMilli(created)
	snap.Document = doc
	return &snap, nil
}

// PruneSnapshots keeps the newest keep snapshots of a session and deletes
// the rest. It returns the number deleted.
func (s *Store) PruneSnapshots(ctx context.Context, sessionID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM snapshots
			WHERE session_id = ? AND id NOT IN (
				SELECT id FROM snapshots WHERE session_id = ? ORDER BY id DESC LIMIT ?
			)
		`, sessionID, sessionID, keep)
		if err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}
