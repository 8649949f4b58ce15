package term

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pixed/pixed/internal/editor"
	"github.com/pixed/pixed/internal/input"
)

// DefaultFrameInterval paces the loop at roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// SaveFunc persists the session's document. It runs on the loop
// goroutine.
type SaveFunc func(s *editor.Session) error

// Loop is the per-frame driver: translate pending events, push them, run
// one dispatch tick, redraw.
type Loop struct {
	screen     Screen
	session    *editor.Session
	translator *Translator
	renderer   *Renderer
	bindings   editor.Bindings

	interval     time.Duration
	save         SaveFunc
	autosave     SaveFunc
	autosaveEach int64
	lastAutosave int64
	logger       *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the frame period.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithSave handles ctrl+s.
func WithSave(fn SaveFunc) LoopOption {
	return func(l *Loop) {
		l.save = fn
	}
}

// WithAutosave calls fn every n ticks while the document is dirty.
func WithAutosave(n int64, fn SaveFunc) LoopOption {
	return func(l *Loop) {
		l.autosaveEach, l.autosave = n, fn
	}
}

// WithLogger sets the loop logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop wires a session to a screen. The loop's renderer becomes the
// session observer.
func NewLoop(screen Screen, session *editor.Session, opts ...LoopOption) *Loop {
	l := &Loop{
		screen:     screen,
		session:    session,
		translator: NewTranslator(session.HoldKeys()),
		bindings:   session.Bindings(),
		renderer:   NewRenderer(screen, session),
		interval:   DefaultFrameInterval,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	session.SetObserver(l.renderer)
	return l
}

// HandleEvent translates one tcell event into queue pushes. It reports
// whether the event asks the loop to quit.
func (l *Loop) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case isCtrl(ev, tcell.KeyCtrlC, 'c'), isCtrl(ev, tcell.KeyCtrlQ, 'q'):
			return true
		case isCtrl(ev, tcell.KeyCtrlS, 's'):
			l.runSave()
			return false
		}
		if k, ok := l.translator.Key(ev); ok {
			l.session.PushKey(k)
		}
	case *tcell.EventMouse:
		for _, m := range l.translator.Mouse(ev) {
			l.session.PushMouse(m)
		}
	case *tcell.EventResize:
		l.screen.Sync()
		l.renderer.Invalidate()
	}
	return false
}

// Frame runs one dispatch tick and redraws if needed.
func (l *Loop) Frame() editor.TickReport {
	r := l.session.Dispatch()
	l.syncLatch(r)
	if r.Switched() {
		l.logger.Debug("tool switched", "from", r.From, "to", r.To, "tick", r.Tick)
	}
	if r.Key != nil || r.Mouse != nil {
		// Tool and color changes only show on the status line.
		l.renderer.Invalidate()
	}
	l.maybeAutosave(r.Tick)
	l.renderer.Draw()
	return r
}

// syncLatch drops the latch of a hold key whose press did not leave its
// bound tool active, so the next press activates the tool again.
func (l *Loop) syncLatch(r editor.TickReport) {
	if r.Key == nil || r.Key.Action != input.KeyPress {
		return
	}
	if id, ok := l.bindings[r.Key.Key]; ok && r.To != id {
		l.translator.Unlatch(r.Key.Key)
	}
}

// isCtrl matches both the legacy control code and a rune reported with the
// ctrl modifier.
func isCtrl(ev *tcell.EventKey, code tcell.Key, r rune) bool {
	if ev.Key() == code {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 &&
		(ev.Rune() == r || ev.Rune() == r-'a'+'A')
}

func (l *Loop) runSave() {
	if l.save == nil {
		return
	}
	if err := l.save(l.session); err != nil {
		l.logger.Error("save failed", "error", err)
		l.renderer.SetMessage("save failed: " + err.Error())
		return
	}
	l.session.MarkSaved()
	l.renderer.SetMessage("saved")
}

func (l *Loop) maybeAutosave(tick int64) {
	if l.autosave == nil || l.autosaveEach <= 0 || !l.session.Dirty() {
		return
	}
	if tick-l.lastAutosave < l.autosaveEach {
		return
	}
	l.lastAutosave = tick
	if err := l.autosave(l.session); err != nil {
		l.logger.Warn("autosave failed", "error", err)
	}
}

// Run polls the screen and drives frames until ctx is cancelled or the
// user quits. The caller owns screen initialization and teardown; Fini
// unblocks the polling goroutine.
func (l *Loop) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.renderer.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		quit := l.drain(events)
		l.Frame()
		if quit {
			l.shutdown()
			return nil
		}
	}
}

// drain handles every event already waiting, without blocking.
func (l *Loop) drain(events <-chan tcell.Event) (quit bool) {
	for {
		select {
		case ev := <-events:
			if l.HandleEvent(ev) {
				return true
			}
		default:
			return false
		}
	}
}

// shutdown releases latched keys so held tools tear down before the
// session closes.
func (l *Loop) shutdown() {
	for _, k := range l.translator.ReleaseAll() {
		l.session.PushKey(k)
	}
	for {
		keys, mouse := l.session.Pending()
		if keys == 0 && mouse == 0 {
			break
		}
		l.session.Dispatch()
	}
	l.logger.Debug("loop stopped", "tick", l.session.Tick())
}

// Run drives session from screen until ctx is cancelled or the user quits.
func Run(ctx context.Context, screen Screen, session *editor.Session, opts ...LoopOption) error {
	return NewLoop(screen, session, opts...).Run(ctx)
}
