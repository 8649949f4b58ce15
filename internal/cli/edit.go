package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/pixed/pixed/internal/config"
	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/editor"
	"github.com/pixed/pixed/internal/store"
	"github.com/pixed/pixed/internal/term"
)

// DefaultAutosaveTicks is the snapshot interval, about ten seconds at the
// default frame rate.
const DefaultAutosaveTicks = 600

// DefaultKeepSnapshots is how many snapshots a session retains.
const DefaultKeepSnapshots = 5

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	LogFile  string
	Autosave int64
	Keep     int
}

// newScreen is replaced in tests.
var newScreen = tcell.NewScreen

// NewEditCommand creates the interactive edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive editor",
		Long: `Open a document in the terminal editor.

A missing file is created on the first save. Without a file the document
described by the config is edited and ctrl+s is unavailable.

Keys:
  space       hold to pan (press again to release)
  z           hold to zoom; left click zooms in, right click out
  p           toggle the pencil
  i           pick a color with the next left click
  ctrl+s      save
  ctrl+q      quit

Logs are written to --log since the terminal is in use.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runEdit(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LogFile, "log", "", "append logs to this file")
	cmd.Flags().Int64Var(&opts.Autosave, "autosave", DefaultAutosaveTicks, "snapshot interval in ticks (0 disables)")
	cmd.Flags().IntVar(&opts.Keep, "keep", DefaultKeepSnapshots, "snapshots kept per session")

	return cmd
}

func runEdit(opts *EditOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	cfg, err := opts.loadConfig(f)
	if err != nil {
		return err
	}

	logOut := io.Discard
	if opts.LogFile != "" {
		lf, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return f.Fail("open log file", err)
		}
		defer lf.Close()
		logOut = lf
	}
	logger := opts.logger(logOut)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	es, err := newEditSession(ctx, cfg, path, logger)
	if err != nil {
		return f.Fail("open document", err)
	}
	es.keep = opts.Keep

	runErr := es.run(ctx, opts.Autosave)
	dirty := es.session.Dirty()
	es.close()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return f.Fail("editor", runErr)
	}
	if dirty {
		msg := "quit with unsaved changes"
		if es.history != nil {
			msg += fmt.Sprintf("; run \"pixed recover --session %s <file>\" to restore the last snapshot", es.session.ID())
		}
		fmt.Fprintln(f.GetErrWriter(), msg)
	}
	return nil
}

// editSession ties an editor session to its file and history database.
type editSession struct {
	ctx     context.Context
	session *editor.Session
	path    string
	history *store.Store
	keep    int
	logger  *slog.Logger
}

// newEditSession opens path (or a blank document when it does not exist)
// and starts a history session when the store is enabled. A store that
// cannot be opened is logged and skipped.
func newEditSession(ctx context.Context, cfg *config.Config, path string, logger *slog.Logger) (*editSession, error) {
	sessionOpts, err := cfg.SessionOptions()
	if err != nil {
		return nil, err
	}
	sessionOpts = append(sessionOpts, editor.WithLogger(logger))

	existing := false
	var doc *document.Document
	if path != "" {
		doc, err = document.Load(path)
		switch {
		case err == nil:
			existing = true
		case errors.Is(err, fs.ErrNotExist):
			doc, err = cfg.NewDocument()
			if err != nil {
				return nil, err
			}
			base := filepath.Base(path)
			doc.SetName(strings.TrimSuffix(base, filepath.Ext(base)))
		default:
			return nil, err
		}
	} else {
		doc, err = cfg.NewDocument()
		if err != nil {
			return nil, err
		}
	}

	es := &editSession{
		ctx:     ctx,
		session: editor.New(doc, sessionOpts...),
		path:    path,
		keep:    DefaultKeepSnapshots,
		logger:  logger,
	}
	logger.Info("session started", "session", es.session.ID(), "path", path)

	storePath, err := cfg.StorePath()
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return es, nil
	}
	if storePath == "" {
		return es, nil
	}
	h, err := store.Open(storePath)
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return es, nil
	}
	if err := h.BeginSession(ctx, es.session.ID()); err != nil {
		logger.Warn("history disabled", "error", err)
		h.Close()
		return es, nil
	}
	es.history = h
	if existing {
		if err := h.TouchDocument(ctx, path, doc); err != nil {
			logger.Warn("record recent document", "error", err)
		}
	}
	return es, nil
}

func (e *editSession) run(ctx context.Context, autosave int64) error {
	screen, err := newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	w, h := screen.Size()
	e.session.CenterDocument(float64(w), float64((h-1)*2))

	return term.Run(ctx, screen, e.session,
		term.WithLogger(e.logger),
		term.WithSave(e.save),
		term.WithAutosave(autosave, e.snapshot),
	)
}

// save writes the document to its file.
func (e *editSession) save(s *editor.Session) error {
	if e.path == "" {
		return errors.New("no file name; start the editor with a file to save")
	}
	doc := s.Document()
	if err := document.Save(doc, e.path); err != nil {
		return err
	}
	e.logger.Info("document saved", "path", e.path, "tick", s.Tick())
	if e.history != nil {
		if err := e.history.TouchDocument(e.ctx, e.path, doc); err != nil {
			e.logger.Warn("record recent document", "error", err)
		}
	}
	return nil
}

// snapshot stores the canvas in the history database and prunes old
// snapshots of the session.
func (e *editSession) snapshot(s *editor.Session) error {
	if e.history == nil || s.Document() == nil {
		return nil
	}
	id, err := e.history.WriteSnapshot(e.ctx, s.ID(), s.Tick(), s.Document())
	if err != nil {
		return err
	}
	pruned, err := e.history.PruneSnapshots(e.ctx, s.ID(), e.keep)
	if err != nil {
		return err
	}
	e.logger.Debug("snapshot written", "id", id, "tick", s.Tick(), "pruned", pruned)
	return nil
}

// close ends the editor session and its history record.
func (e *editSession) close() {
	e.session.Close()
	if e.history == nil {
		return
	}
	// The signal context may already be cancelled.
	ctx := context.WithoutCancel(e.ctx)
	if err := e.history.EndSession(ctx, e.session.ID()); err != nil {
		e.logger.Warn("end history session", "error", err)
	}
	if err := e.history.Close(); err != nil {
		e.logger.Warn("close history", "error", err)
	}
	e.logger.Info("session ended", "session", e.session.ID())
}
