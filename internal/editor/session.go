package editor

import (
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/input"
)

// Default view parameters.
const (
	DefaultZoom    = 10.0
	DefaultMinZoom = 1.0
	DefaultMaxZoom = 64.0
)

// Session is the editor's single stateful object: the open document, the
// active tool, the view transform and the two input queues.
type Session struct {
	id       string
	doc      *document.Document
	tools    *Registry
	bindings Bindings
	active   Tool

	view    View
	minZoom float64
	maxZoom float64

	color document.Color
	dirty bool

	keys  *input.Queue[input.KeyEvent]
	mouse *input.Queue[input.MouseEvent]

	clock    *Clock
	observer Observer
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers the renderer notification point.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithRegistry replaces the built-in tool set.
func WithRegistry(r *Registry) Option {
	return func(s *Session) { s.tools = r }
}

// WithBindings replaces the activation table.
func WithBindings(b Bindings) Option {
	return func(s *Session) { s.bindings = b.Clone() }
}

// WithZoom sets the initial zoom and its clamp range.
func WithZoom(zoom, min, max float64) Option {
	return func(s *Session) {
		s.minZoom, s.maxZoom = min, max
		s.view.Zoom = zoom
	}
}

// WithColor sets the initial drawing color.
func WithColor(c document.Color) Option {
	return func(s *Session) { s.color = c }
}

// WithClock sets the tick clock.
func WithClock(c *Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithIDGenerator sets how the session id is generated.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) { s.id = g.Generate() }
}

// New creates a session editing doc (which may be nil until SetDocument).
// The session starts Idle.
func New(doc *document.Document, opts ...Option) *Session {
	s := &Session{
		doc:      doc,
		tools:    DefaultRegistry(),
		bindings: DefaultBindings(),
		view:     View{Zoom: DefaultZoom},
		minZoom:  DefaultMinZoom,
		maxZoom:  DefaultMaxZoom,
		color:    document.Black,
		clock:    NewClock(),
		observer: nopObserver{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = UUIDv7Generator{}.Generate()
	}
	s.view.Zoom = s.clampZoom(s.view.Zoom)
	s.active = s.tools.Idle()
	s.keys = input.NewQueue[input.KeyEvent]("keyboard", s.logger)
	s.mouse = input.NewQueue[input.MouseEvent]("mouse", s.logger)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Logger returns the session logger; tools log through it.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Document returns the open document, or nil.
func (s *Session) Document() *document.Document { return s.doc }

// SetDocument replaces the open document. The previous document is dropped;
// replacing one with unsaved edits is logged.
func (s *Session) SetDocument(doc *document.Document) {
	if s.doc != nil && s.dirty {
		s.logger.Warn("replacing document with unsaved changes", "document", s.doc.Name())
	}
	s.doc = doc
	s.dirty = false
	if doc != nil {
		s.logger.Info("document opened", "name", doc.Name(), "width", doc.Width(), "height", doc.Height())
	}
}

// SetObserver replaces the observer. A nil observer disables
// notifications.
func (s *Session) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// Dirty reports whether the document changed since it was opened or last
// marked saved.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() { s.dirty = false }

// ActiveTool returns the active tool.
func (s *Session) ActiveTool() Tool { return s.active }

// Bindings returns a copy of the activation table.
func (s *Session) Bindings() Bindings { return s.bindings.Clone() }

// HoldKeys returns the bound keys whose tool deactivates on key release.
// Platforms that cannot report releases use this to emulate them.
func (s *Session) HoldKeys() []input.Key {
	var keys []input.Key
	for key, id := range s.bindings {
		t, ok := s.tools.Get(id)
		if !ok {
			continue
		}
		if _, ok := t.(KeyUpHandler); ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Tick returns the number of completed dispatch ticks.
func (s *Session) Tick() int64 { return s.clock.Current() }

// PushKey enqueues a key event from the platform layer.
func (s *Session) PushKey(ev input.KeyEvent) { s.keys.Push(ev) }

// PushMouse enqueues a mouse event from the platform layer.
func (s *Session) PushMouse(ev input.MouseEvent) { s.mouse.Push(ev) }

// Pending returns the number of queued key and mouse events.
func (s *Session) Pending() (keys, mouse int) { return s.keys.Len(), s.mouse.Len() }

// View returns the current view transform.
func (s *Session) View() View { return s.view }

// SetPan moves the view and notifies the observer.
func (s *Session) SetPan(x, y float64) {
	if s.view.PanX == x && s.view.PanY == y {
		return
	}
	s.view.PanX, s.view.PanY = x, y
	s.observer.ViewChanged(s.view)
}

// SetZoom sets the zoom, clamped to the configured range, and notifies the
// observer.
func (s *Session) SetZoom(z float64) {
	z = s.clampZoom(z)
	if s.view.Zoom == z {
		return
	}
	s.view.Zoom = z
	s.observer.ViewChanged(s.view)
}

// ZoomAt changes the zoom while keeping the canvas point under screen
// position (x, y) fixed.
func (s *Session) ZoomAt(z float64, x, y int) {
	z = s.clampZoom(z)
	old := s.view
	if old.Zoom == z {
		return
	}
	ratio := z / old.Zoom
	s.view = View{
		Zoom: z,
		PanX: float64(x) - (float64(x)-old.PanX)*ratio,
		PanY: float64(y) - (float64(y)-old.PanY)*ratio,
	}
	s.observer.ViewChanged(s.view)
}

func (s *Session) clampZoom(z float64) float64 {
	return math.Min(math.Max(z, s.minZoom), s.maxZoom)
}

// CenterDocument pans so the document sits in the middle of a viewport of
// the given size.
func (s *Session) CenterDocument(viewportW, viewportH float64) {
	if s.doc == nil {
		return
	}
	s.SetPan(
		viewportW/2-float64(s.doc.Width())*s.view.Zoom/2,
		viewportH/2-float64(s.doc.Height())*s.view.Zoom/2,
	)
}

// ScreenToCanvas maps a renderer position to the canvas cell under it. The
// result may lie outside the document.
func (s *Session) ScreenToCanvas(x, y int) (int, int) {
	cx := math.Floor((float64(x) - s.view.PanX) / s.view.Zoom)
	cy := math.Floor((float64(y) - s.view.PanY) / s.view.Zoom)
	return int(cx), int(cy)
}

// Color returns the drawing color.
func (s *Session) Color() document.Color { return s.color }

// SetColor sets the drawing color.
func (s *Session) SetColor(c document.Color) { s.color = c }

// PaintPixel writes c at canvas cell (x, y). It reports false when there is
// no document or the cell is out of bounds.
func (s *Session) PaintPixel(x, y int, c document.Color) bool {
	if s.doc == nil {
		return false
	}
	if err := s.doc.SetPixel(x, y, c); err != nil {
		return false
	}
	s.dirty = true
	s.observer.CanvasChanged(x, y)
	return true
}

// Close tears the session down: the active tool is destroyed, both queues
// are drained and the document is dropped.
func (s *Session) Close() {
	if s.active.ID() != ToolIdle {
		s.destroy(s.active)
		s.active = s.tools.Idle()
	}
	keys, mouse := len(s.keys.Drain()), len(s.mouse.Drain())
	if keys > 0 || mouse > 0 {
		s.logger.Debug("discarded pending input", "keys", keys, "mouse", mouse)
	}
	s.doc = nil
	s.dirty = false
}
