package document

import (
	"fmt"
	"image"

	"golang.org/x/text/unicode/norm"
)

// MaxCells bounds width*height for any canvas this package allocates
// (256 MiB of cells). Headers claiming more are refused before allocation.
const MaxCells = 1 << 26

// Document is a named width x height canvas of packed RGBA cells.
//
// A Document is owned by a single editor session and is not safe for
// concurrent use.
type Document struct {
	name   string
	width  uint32
	height uint32
	canvas []Color
}

// New allocates a zero-initialized (transparent black) canvas.
//
// New does not reject zero dimensions; it returns an empty canvas. Load is
// where zero dimensions are treated as a format error.
func New(name string, width, height uint32) (*Document, error) {
	cells := uint64(width) * uint64(height)
	if cells > MaxCells {
		return nil, &AllocationError{Width: width, Height: height}
	}
	return &Document{
		name:   norm.NFC.String(name),
		width:  width,
		height: height,
		canvas: make([]Color, cells),
	}, nil
}

// Name returns the NFC-normalized document name.
func (d *Document) Name() string { return d.name }

// SetName renames the document.
func (d *Document) SetName(name string) { d.name = norm.NFC.String(name) }

// Width returns the canvas width in pixels.
func (d *Document) Width() uint32 { return d.width }

// Height returns the canvas height in pixels.
func (d *Document) Height() uint32 { return d.height }

// Len returns width*height.
func (d *Document) Len() int { return len(d.canvas) }

// Canvas returns the backing row-major cell slice. Callers must treat it as
// read-only; writes go through SetPixel so bounds are checked.
func (d *Document) Canvas() []Color { return d.canvas }

// Bounds returns the canvas rectangle anchored at the origin.
func (d *Document) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(d.width), int(d.height))
}

// Contains reports whether (x, y) addresses a cell.
func (d *Document) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(d.width) && y < int(d.height)
}

func (d *Document) index(x, y int) int {
	return y*int(d.width) + x
}

// Pixel returns the color at (x, y).
func (d *Document) Pixel(x, y int) (Color, error) {
	if !d.Contains(x, y) {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: d.width, Height: d.height}
	}
	return d.canvas[d.index(x, y)], nil
}

// SetPixel stores c at (x, y).
func (d *Document) SetPixel(x, y int, c Color) error {
	if !d.Contains(x, y) {
		return &OutOfBoundsError{X: x, Y: y, Width: d.width, Height: d.height}
	}
	d.canvas[d.index(x, y)] = c
	return nil
}

// Fill sets every cell to c.
func (d *Document) Fill(c Color) {
	for i := range d.canvas {
		d.canvas[i] = c
	}
}

// Resize changes the canvas dimensions. Only the no-op case is supported:
// matching dimensions return nil, anything else returns ErrUnsupported and
// leaves the document untouched.
func (d *Document) Resize(width, height uint32) error {
	if width == d.width && height == d.height {
		return nil
	}
	return fmt.Errorf("resize %dx%d to %dx%d: %w", d.width, d.height, width, height, ErrUnsupported)
}
