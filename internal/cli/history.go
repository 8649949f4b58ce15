package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pixed/pixed/internal/config"
	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/store"
)

// openHistory opens the history database the config points at.
func openHistory(cfg *config.Config, f *OutputFormatter) (*store.Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, f.Fail("locate history", err)
	}
	if path == "" {
		_ = f.Error(ErrCodeConfig, "history store is disabled (store.path is \"off\")", nil)
		return nil, NewExitError(ExitCommandError, "history store is disabled")
	}
	f.VerboseLog("history database %s", path)
	s, err := store.Open(path)
	if err != nil {
		return nil, f.Fail("open history", err)
	}
	return s, nil
}

// RecentList is the output of the recent command.
type RecentList struct {
	Documents []RecentEntry `json:"documents"`
}

// RecentEntry is one recently used document.
type RecentEntry struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Width      uint32    `json:"width"`
	Height     uint32    `json:"height"`
	LastOpened time.Time `json:"last_opened"`
	OpenCount  int       `json:"open_count"`
}

func (l RecentList) String() string {
	if len(l.Documents) == 0 {
		return "No recent documents."
	}
	var b strings.Builder
	for i, d := range l.Documents {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %dx%d  %s  (%d)", d.Path, d.Width, d.Height,
			d.LastOpened.Format(time.DateTime), d.OpenCount)
	}
	return b.String()
}

// NewRecentCommand creates the recent command.
func NewRecentCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		limit int
		prune bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently edited documents",
		Long: `List recently edited documents, most recent first.

With --prune, entries whose file no longer exists are removed from the
history before listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			cfg, err := rootOpts.loadConfig(f)
			if err != nil {
				return err
			}
			s, err := openHistory(cfg, f)
			if err != nil {
				return err
			}
			defer s.Close()

			if prune {
				if err := pruneRecent(cmd.Context(), s, f); err != nil {
					return f.Fail("prune recent documents", err)
				}
			}

			docs, err := s.RecentDocuments(cmd.Context(), limit)
			if err != nil {
				return f.Fail("list recent documents", err)
			}
			out := RecentList{Documents: make([]RecentEntry, 0, len(docs))}
			for _, d := range docs {
				out.Documents = append(out.Documents, RecentEntry{
					Path:       d.Path,
					Name:       d.Name,
					Width:      d.Width,
					Height:     d.Height,
					LastOpened: d.LastOpenedAt.UTC(),
					OpenCount:  d.OpenCount,
				})
			}
			return f.Success(out)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of documents (0 for all)")
	cmd.Flags().BoolVar(&prune, "prune", false, "forget documents whose file no longer exists")
	return cmd
}

// pruneRecent forgets every recent document whose file is missing.
func pruneRecent(ctx context.Context, s *store.Store, f *OutputFormatter) error {
	docs, err := s.RecentDocuments(ctx, 0)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if _, err := os.Stat(d.Path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		f.VerboseLog("forgetting %s", d.Path)
		if err := s.ForgetDocument(ctx, d.Path); err != nil {
			return err
		}
	}
	return nil
}

// SessionList is the output of the sessions command.
type SessionList struct {
	Sessions []SessionEntry `json:"sessions"`
}

// SessionEntry is one editing session in the history.
type SessionEntry struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Snapshots int        `json:"snapshots"`
}

func (l SessionList) String() string {
	if len(l.Sessions) == 0 {
		return "No sessions."
	}
	var b strings.Builder
	for i, s := range l.Sessions {
		if i > 0 {
			b.WriteByte('\n')
		}
		state := "open"
		if s.EndedAt != nil {
			state = "ended " + s.EndedAt.Format(time.DateTime)
		}
		fmt.Fprintf(&b, "%s  %s  %s  %d snapshots", s.ID, s.StartedAt.Format(time.DateTime), state, s.Snapshots)
	}
	return b.String()
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List editing sessions in the history",
		Long: `List editing sessions, newest first, with the number of autosaved
snapshots each one holds. A session still marked open was not closed
cleanly; pass its id to "pixed recover --session".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			cfg, err := rootOpts.loadConfig(f)
			if err != nil {
				return err
			}
			s, err := openHistory(cfg, f)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.Sessions(cmd.Context(), limit)
			if err != nil {
				return f.Fail("list sessions", err)
			}
			out := SessionList{Sessions: make([]SessionEntry, 0, len(records))}
			for _, r := range records {
				e := SessionEntry{ID: r.ID, StartedAt: r.StartedAt.UTC(), Snapshots: r.Snapshots}
				if !r.Open() {
					ended := r.EndedAt.UTC()
					e.EndedAt = &ended
				}
				out.Sessions = append(out.Sessions, e)
			}
			return f.Success(out)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of sessions (0 for all)")
	return cmd
}

// RecoverResult is the output of the recover command.
type RecoverResult struct {
	SessionID string    `json:"session_id"`
	Tick      int64     `json:"tick"`
	TakenAt   time.Time `json:"taken_at"`
	Output    string    `json:"output"`
	Name      string    `json:"name"`
	Width     uint32    `json:"width"`
	Height    uint32    `json:"height"`
}

func (r RecoverResult) String() string {
	return fmt.Sprintf("recovered %q %dx%d from session %s tick %d into %s",
		r.Name, r.Width, r.Height, r.SessionID, r.Tick, r.Output)
}

// NewRecoverCommand creates the recover command.
func NewRecoverCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		session string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "recover <out-file>",
		Short: "Write the latest autosaved snapshot to a file",
		Long: `Write the latest canvas snapshot from the history database to a file.

Snapshots are taken periodically by "pixed edit" while a document has
unsaved changes. Without --session the newest snapshot of any session is
used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			out := args[0]
			if !force {
				if _, err := os.Stat(out); err == nil {
					_ = f.Error(ErrCodeArgs, fmt.Sprintf("%s already exists (use --force)", out), nil)
					return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists", out))
				}
			}

			cfg, err := rootOpts.loadConfig(f)
			if err != nil {
				return err
			}
			s, err := openHistory(cfg, f)
			if err != nil {
				return err
			}
			defer s.Close()

			snap, err := s.LatestSnapshot(cmd.Context(), session)
			if err != nil {
				return f.Fail("find snapshot", err)
			}
			if err := document.Save(snap.Document, out); err != nil {
				return f.Fail("save document", err)
			}
			return f.Success(RecoverResult{
				SessionID: snap.SessionID,
				Tick:      snap.Tick,
				TakenAt:   snap.CreatedAt.UTC(),
				Output:    out,
				Name:      snap.Document.Name(),
				Width:     snap.Document.Width(),
				Height:    snap.Document.Height(),
			})
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "session id (default: newest snapshot of any session)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
