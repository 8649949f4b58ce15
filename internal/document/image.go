package document

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// ToImage copies the canvas into an *image.NRGBA.
func (d *Document) ToImage() *image.NRGBA {
	img := image.NewNRGBA(d.Bounds())
	for i, c := range d.canvas {
		p := img.Pix[4*i : 4*i+4 : 4*i+4]
		p[0], p[1], p[2], p[3] = c.R(), c.G(), c.B(), c.A()
	}
	return img
}

// FromImage builds a document from any image. The image origin is mapped
// to canvas (0, 0).
func FromImage(name string, src image.Image) (*Document, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("from image: empty bounds %v", b)
	}
	d, err := New(name, uint32(b.Dx()), uint32(b.Dy()))
	if err != nil {
		return nil, err
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.canvas[i] = FromColor(src.At(x, y))
			i++
		}
	}
	return d, nil
}

// ExportPNG writes the canvas as a PNG, each cell scaled to scale x scale
// output pixels with nearest-neighbour sampling.
func (d *Document) ExportPNG(w io.Writer, scale int) error {
	if scale < 1 {
		return fmt.Errorf("export png: scale %d must be >= 1", scale)
	}
	src := d.ToImage()
	if scale == 1 {
		return png.Encode(w, src)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, int(d.width)*scale, int(d.height)*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}

// DecodeImage reads a PNG (or any registered image format) into a document.
func DecodeImage(r io.Reader, name string) (*Document, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(name, img)
}
