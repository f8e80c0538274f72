// Package compress wraps output in a compressed stream and transparently
// decompresses input, for the gzip, LZ4 frame, and Zstandard formats.
package compress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.uber.org/multierr"
)

type Format string

const (
	None Format = ""
	Gzip Format = "gzip"
	LZ4  Format = "lz4"
	Zstd Format = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (f *Format) Set(s string) error {
	switch Format(strings.ToLower(s)) {
	case "", "none":
		*f = None
	case Gzip, "gz":
		*f = Gzip
	case LZ4:
		*f = LZ4
	case Zstd, "zst":
		*f = Zstd
	default:
		return fmt.Errorf("unknown compression format %q (values: none, gzip, lz4, zstd)", s)
	}
	return nil
}

func (f Format) String() string {
	if f == None {
		return "none"
	}
	return string(f)
}

// Extension returns the file name extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case Gzip:
		return ".gz"
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	}
	return ""
}

// FromExtension returns the format indicated by the extension of path.
func FromExtension(path string) Format {
	switch filepath.Ext(path) {
	case ".gz":
		return Gzip
	case ".lz4":
		return LZ4
	case ".zst":
		return Zstd
	}
	return None
}

// Detect identifies the format from the leading bytes of a stream.
func Detect(b []byte) Format {
	switch {
	case bytes.HasPrefix(b, gzipMagic):
		return Gzip
	case bytes.HasPrefix(b, lz4Magic):
		return LZ4
	case bytes.HasPrefix(b, zstdMagic):
		return Zstd
	}
	return None
}

// NewReader returns a reader of the decompressed content of r, or of r
// itself if it does not begin with a known magic number.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}
	switch Detect(magic) {
	case Gzip:
		return gzip.NewReader(br)
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), nil
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	}
	return io.NopCloser(br), nil
}

type writer struct {
	io.WriteCloser
	under io.WriteCloser
}

// NewWriter returns a writer that compresses to w in format f.  Closing it
// flushes the compressed stream and closes w.  If w has an Abort method,
// so does the returned writer.
func NewWriter(w io.WriteCloser, f Format) (io.WriteCloser, error) {
	var enc io.WriteCloser
	switch f {
	case None:
		return w, nil
	case Gzip:
		enc = gzip.NewWriter(w)
	case LZ4:
		enc = lz4.NewWriter(w)
	case Zstd:
		var err error
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown compression format %q", string(f))
	}
	return &writer{WriteCloser: enc, under: w}, nil
}

func (w *writer) Close() error {
	return multierr.Append(w.WriteCloser.Close(), w.under.Close())
}

func (w *writer) Abort() {
	if a, ok := w.under.(interface{ Abort() }); ok {
		a.Abort()
		return
	}
	w.under.Close()
}
