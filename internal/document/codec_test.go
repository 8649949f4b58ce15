package document

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, d *Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))
	return buf.Bytes()
}

func rawFile(magic string, width, height uint32, cells ...uint32) []byte {
	buf := []byte(magic)
	buf = binary.BigEndian.AppendUint32(buf, width)
	buf = binary.BigEndian.AppendUint32(buf, height)
	for _, c := range cells {
		buf = binary.BigEndian.AppendUint32(buf, c)
	}
	return buf
}

func TestEncode_UntitledScenario(t *testing.T) {
	d, err := New("Untitled", 16, 16)
	require.NoError(t, err)
	require.NoError(t, d.SetPixel(0, 0, 0xFF0000FF))

	data := encode(t, d)

	assert.Len(t, data, 1036)
	assert.Equal(t, []byte{'P', 'i', 'X', 'd'}, data[0:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x10}, data[4:8])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x10}, data[8:12])
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0xFF}, data[12:16])
	assert.Equal(t, EncodedSize(16, 16), int64(len(data)))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sizes := [][2]uint32{{1, 1}, {1, 7}, {7, 1}, {16, 16}, {33, 5}, {100, 70}}

	for _, sz := range sizes {
		d, err := New("rt", sz[0], sz[1])
		require.NoError(t, err)
		for i := range d.canvas {
			d.canvas[i] = Color(rng.Uint32())
		}

		got, err := Decode(bytes.NewReader(encode(t, d)), "rt")
		require.NoError(t, err, "size %v", sz)
		assert.Equal(t, d.Width(), got.Width())
		assert.Equal(t, d.Height(), got.Height())
		assert.Equal(t, d.Canvas(), got.Canvas())
	}
}

func TestDecode_RowMajorOrder(t *testing.T) {
	data := rawFile(Magic, 2, 2, 1, 2, 3, 4)
	d, err := Decode(bytes.NewReader(data), "order")
	require.NoError(t, err)

	c, _ := d.Pixel(1, 0)
	assert.Equal(t, Color(2), c)
	c, _ = d.Pixel(0, 1)
	assert.Equal(t, Color(3), c)
}

func TestDecode_BadMagic(t *testing.T) {
	for _, magic := range []string{"PIXD", "pixd", "PiXe", "\x00\x00\x00\x00", "QOIF"} {
		data := rawFile(magic, 1, 1, 0xffffffff)
		_, err := Decode(bytes.NewReader(data), "m")
		assert.True(t, IsBadMagic(err), "magic %q: %v", magic, err)
	}
}

func TestDecode_BadMagicShortInput(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("X")), "m")
	assert.True(t, IsBadMagic(err))
}

func TestDecode_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]uint32{{0, 1}, {1, 0}, {0, 0}} {
		data := rawFile(Magic, dims[0], dims[1], 0, 0, 0, 0)
		_, err := Decode(bytes.NewReader(data), "d")
		assert.True(t, IsInvalidDimensions(err), "dims %v: %v", dims, err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	d, err := New("t", 3, 2)
	require.NoError(t, err)
	d.Fill(Red)
	data := encode(t, d)

	for n := 0; n < len(data); n++ {
		_, err := Decode(bytes.NewReader(data[:n]), "t")
		assert.True(t, IsTruncated(err), "prefix %d: %v", n, err)
	}
}

func TestDecode_TrailingData(t *testing.T) {
	data := append(rawFile(Magic, 1, 1, 0x01020304), 0x00)
	_, err := Decode(bytes.NewReader(data), "x")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrCodeTrailingData, fe.Code)
}

func TestDecode_HugeHeaderRefused(t *testing.T) {
	data := rawFile(Magic, 1<<20, 1<<20)
	_, err := Decode(bytes.NewReader(data), "huge")
	var ae *AllocationError
	assert.ErrorAs(t, err, &ae)
}

func TestLoadSave_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.pixd")

	d, err := New("sprite", 4, 4)
	require.NoError(t, err)
	require.NoError(t, d.SetPixel(3, 2, Red))
	require.NoError(t, Save(d, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, EncodedSize(4, 4), info.Size())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sprite", got.Name())
	c, _ := got.Pixel(3, 2)
	assert.Equal(t, Red, c)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestSave_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.pixd")
	orig := []byte("original contents")
	require.NoError(t, os.WriteFile(path, orig, 0644))

	err := Save(nil, path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, orig, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inplace.pixd")
	d, err := New("inplace", 2, 2)
	require.NoError(t, err)
	require.NoError(t, SaveInPlace(d, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), got.Width())
}

func TestLoadSave_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	d, _ := New("x", 1, 1)
	assert.ErrorIs(t, Save(d, ""), ErrEmptyPath)
	assert.ErrorIs(t, SaveInPlace(d, ""), ErrEmptyPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.pixd"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(unwrapAll(err)))
	assert.False(t, IsFormatError(err))
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}
