package outputflags

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio/jsonio"
	"go.uber.org/multierr"
)

type Flags struct {
	jsonio.WriterOpts
	compression compress.Format
	force       bool
	outputDir   string
	outputFile  string
}

func (f *Flags) Options() jsonio.WriterOpts {
	return f.WriterOpts
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.NDJSON, "ndjson", false, "write one object per line instead of a JSON array")
	fs.Var(&f.NonFinite, "nonfinite", "how to write NaN and Infinity [literal,null,string,error] (default literal)")
	fs.BoolVar(&f.Strict, "strict", false, "fail on a required field with no value instead of writing null")
	fs.Var(&f.compression, "z", "compress output [none,gz,lz4,zst] (default from -o extension)")
	fs.BoolVar(&f.force, "f", false, "overwrite existing output files")
	fs.StringVar(&f.outputDir, "d", "", "write each output to this directory, named after its input")
	fs.StringVar(&f.outputFile, "o", "", "write output to this file or URI (default stdout)")
}

func (f *Flags) Init() error {
	if f.outputDir != "" && f.outputFile != "" {
		return errors.New("-o and -d may not both be specified")
	}
	if f.compression == compress.None && f.outputFile != "" {
		f.compression = compress.FromExtension(f.outputFile)
	}
	return nil
}

// PerInput reports whether each input gets its own output.
func (f *Flags) PerInput() bool {
	return f.outputDir != ""
}

// CheckInputs returns an error if n inputs cannot share the single output.
// JSON arrays do not concatenate, so only NDJSON output may hold more than
// one input.
func (f *Flags) CheckInputs(n int) error {
	if n > 1 && !f.PerInput() && !f.NDJSON {
		return errors.New("multiple inputs require -d or -ndjson")
	}
	return nil
}

// Path returns the output location for input, or for all inputs if
// PerInput is false.
func (f *Flags) Path(input string) string {
	switch {
	case f.outputDir != "":
		return filepath.Join(f.outputDir, convert.OutputName(input, f.NDJSON, f.compression))
	case f.outputFile != "":
		return f.outputFile
	}
	return "stdio:stdout"
}

// Open creates path with engine, compressing as requested.  Unless -f was
// given, an existing file is not overwritten.  The returned writer always
// has an Abort method, and nothing reaches a sink that cannot discard a
// partial write (standard output) until Close.
func (f *Flags) Open(ctx context.Context, engine storage.Engine, path string) (io.WriteCloser, error) {
	u, err := storage.ParseURI(path)
	if err != nil {
		return nil, err
	}
	if !f.force && !u.HasScheme(storage.StdioScheme) {
		ok, err := engine.Exists(ctx, u)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, fmt.Errorf("%s: file exists (use -f to overwrite)", path)
		}
	}
	w, err := engine.Put(ctx, u)
	if err != nil {
		return nil, err
	}
	if _, ok := w.(interface{ Abort() }); !ok {
		w = &heldWriter{under: w}
	}
	return compress.NewWriter(w, f.compression)
}

// heldWriter buffers everything written until Close, then writes it to
// under in one piece.  Abort closes under without writing.
type heldWriter struct {
	bytes.Buffer
	under io.WriteCloser
}

func (h *heldWriter) Close() error {
	_, err := h.WriteTo(h.under)
	return multierr.Append(err, h.under.Close())
}

func (h *heldWriter) Abort() {
	h.Reset()
	h.under.Close()
}
