package document

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic is the four-byte tag that starts every PiXd file.
const Magic = "PiXd"

// HeaderSize is the byte length of magic + width + height.
const HeaderSize = 12

// cellChunk is how many cells are decoded per read.
const cellChunk = 4096

// EncodedSize returns the exact byte length of the PiXd encoding of a
// width x height canvas.
func EncodedSize(width, height uint32) int64 {
	return HeaderSize + 4*int64(width)*int64(height)
}

func putUint32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

func getUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// Encode writes d to w in PiXd format.
func Encode(w io.Writer, d *Document) error {
	if d == nil {
		return errors.New("encode: nil document")
	}
	bw := bufio.NewWriter(w)

	var header [HeaderSize]byte
	copy(header[0:4], Magic)
	putUint32(header[4:8], d.width)
	putUint32(header[8:12], d.height)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	var cell [4]byte
	for i, c := range d.canvas {
		putUint32(cell[:], uint32(c))
		if _, err := bw.Write(cell[:]); err != nil {
			return fmt.Errorf("encode cell %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Decode reads one PiXd document from r. The stream must end exactly after
// the last canvas cell.
func Decode(r io.Reader, name string) (*Document, error) {
	br := bufio.NewReader(r)

	var header [HeaderSize]byte
	n, err := io.ReadFull(br, header[:4])
	if err != nil {
		if n > 0 && string(header[:n]) != Magic[:n] {
			return nil, newFormatError(ErrCodeBadMagic, "magic %q is not %q", header[:n], Magic)
		}
		return nil, newFormatError(ErrCodeTruncated, "magic: read %d of 4 bytes", n)
	}
	if string(header[:4]) != Magic {
		return nil, newFormatError(ErrCodeBadMagic, "magic %q is not %q", header[:4], Magic)
	}

	if n, err := io.ReadFull(br, header[4:]); err != nil {
		return nil, newFormatError(ErrCodeTruncated, "dimensions: read %d of 8 bytes", n)
	}
	width := getUint32(header[4:8])
	height := getUint32(header[8:12])
	if width == 0 || height == 0 {
		return nil, newFormatError(ErrCodeInvalidDimensions, "dimensions %dx%d must be positive", width, height)
	}

	d, err := New(name, width, height)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 4*cellChunk)
	for off := 0; off < len(d.canvas); {
		count := len(d.canvas) - off
		if count > cellChunk {
			count = cellChunk
		}
		chunk := buf[:4*count]
		if n, err := io.ReadFull(br, chunk); err != nil {
			return nil, newFormatError(ErrCodeTruncated, "canvas: read %d of %d cells", off+n/4, len(d.canvas))
		}
		for i := 0; i < count; i++ {
			d.canvas[off+i] = Color(getUint32(chunk[4*i:]))
		}
		off += count
	}

	if _, err := br.ReadByte(); err == nil {
		return nil, newFormatError(ErrCodeTrailingData, "data after %d canvas cells", len(d.canvas))
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return d, nil
}

// Load opens path and decodes it. The document is named after the file's
// base name without extension.
func Load(path string) (*Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	d, err := Decode(f, nameFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Save writes d to path atomically: the encoding goes to a temporary file
// in the same directory which is synced and renamed over path.
func Save(d *Document, path string) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, d); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SaveInPlace truncates path and writes d directly into it. A failure part
// way through leaves a partially written file.
func SaveInPlace(d *Document, path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := Encode(f, d); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
