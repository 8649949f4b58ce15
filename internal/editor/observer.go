package editor

// View is the transform from canvas cells to renderer coordinates:
// screen = pan + cell*zoom.
type View struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// Observer is notified synchronously, from inside Dispatch or the setter
// that caused the change, so the renderer can refresh uniforms or cells.
type Observer interface {
	ViewChanged(v View)
	CanvasChanged(x, y int)
}

type nopObserver struct{}

func (nopObserver) ViewChanged(View)       {}
func (nopObserver) CanvasChanged(int, int) {}
