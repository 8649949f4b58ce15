package document

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToImage(t *testing.T) {
	d, err := New("img", 2, 1)
	require.NoError(t, err)
	require.NoError(t, d.SetPixel(1, 0, Color(0x10203040)))

	img := d.ToImage()
	assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, img.NRGBAAt(1, 0))
}

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 0xff, A: 0xff})

	d, err := FromImage("offset", src)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), d.Width())
	assert.Equal(t, uint32(2), d.Height())
	c, _ := d.Pixel(0, 0)
	assert.Equal(t, Red, c)
}

func TestFromImage_Empty(t *testing.T) {
	_, err := FromImage("empty", image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

func TestExportPNG_Scaled(t *testing.T) {
	d, err := New("png", 2, 2)
	require.NoError(t, err)
	require.NoError(t, d.SetPixel(1, 1, Red))

	var buf bytes.Buffer
	require.NoError(t, d.ExportPNG(&buf, 3))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 6), img.Bounds())
	assert.Equal(t, Red, FromColor(img.At(5, 5)))
	assert.Equal(t, Red, FromColor(img.At(3, 3)))
	assert.Equal(t, Transparent, FromColor(img.At(2, 2)))
}

func TestExportPNG_InvalidScale(t *testing.T) {
	d, _ := New("png", 1, 1)
	assert.Error(t, d.ExportPNG(&bytes.Buffer{}, 0))
}

func TestDecodeImage_RoundTrip(t *testing.T) {
	d, err := New("rt", 3, 3)
	require.NoError(t, err)
	require.NoError(t, d.SetPixel(2, 0, RGB(1, 2, 3)))

	var buf bytes.Buffer
	require.NoError(t, d.ExportPNG(&buf, 1))

	got, err := DecodeImage(&buf, "rt")
	require.NoError(t, err)
	assert.Equal(t, d.Canvas(), got.Canvas())
}
