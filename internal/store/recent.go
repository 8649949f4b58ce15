package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pixed/pixed/internal/document"
)

// RecentDocument is a document path the editor opened or saved.
type RecentDocument struct {
	Path         string
	Name         string
	Width        uint32
	Height       uint32
	LastOpenedAt time.Time
	OpenCount    int
}

// TouchDocument records that doc was opened or saved at path. The path is
// stored in absolute form.
func (s *Store) TouchDocument(ctx context.Context, path string, doc *document.Document) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("touch document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recent_documents (path, name, width, height, last_opened_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			width = excluded.width,
			height = excluded.height,
			last_opened_at = excluded.last_opened_at,
			open_count = open_count + 1
	`, abs, doc.Name(), doc.Width(), doc.Height(), s.timestamp())
	if err != nil {
		return fmt.Errorf("touch document: %w", err)
	}
	return nil
}

// RecentDocuments returns up to limit documents, most recently used first.
// A limit <= 0 means no limit.
func (s *Store) RecentDocuments(ctx context.Context, limit int) ([]RecentDocument, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, width, height, last_opened_at, open_count
		FROM recent_documents
		ORDER BY last_opened_at DESC, path COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent documents: %w", err)
	}
	defer rows.Close()

	docs := []RecentDocument{}
	for rows.Next() {
		var (
			d      RecentDocument
			opened int64
		)
		if err := rows.Scan(&d.Path, &d.Name, &d.Width, &d.Height, &opened, &d.OpenCount); err != nil {
			return nil, fmt.Errorf("scan recent document: %w", err)
		}
		d.LastOpenedAt = time.UnixMilli(opened)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent documents: %w", err)
	}
	return docs, nil
}

// ForgetDocument removes path from the recent list.
func (s *Store) ForgetDocument(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("forget document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_documents WHERE path = ?`, abs); err != nil {
		return fmt.Errorf("forget document: %w", err)
	}
	return nil
}
