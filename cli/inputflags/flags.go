package inputflags

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/pkg/units"
	"github.com/brimdata/pqjson/zio/anyio"
)

type Flags struct {
	Decoder  string
	maxInput units.Bytes
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Decoder, "decoder", anyio.DefaultDecoder, fmt.Sprintf("parquet decoder %v", anyio.Decoders))
	fs.Var(&f.maxInput, "maxinput", "largest input to read, as in 512MiB (default a quarter of physical memory)")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	return anyio.CheckDecoder(f.Decoder)
}

func (f *Flags) MaxInput() units.Bytes {
	return f.maxInput
}

// StatsReader reads one input and reports progress while doing so.
type StatsReader struct {
	Path       string
	BytesTotal int64
	bytesRead  int64
	engine     storage.Engine
	max        int64
}

// NewStatsReaders returns a StatsReader for each of paths.  The total size
// of each uncompressed input is looked up when the engine can report it.
func (f *Flags) NewStatsReaders(ctx context.Context, engine storage.Engine, paths []string) []*StatsReader {
	max := int64(f.maxInput)
	if max <= 0 {
		max = convert.DefaultMaxInputSize()
	}
	readers := make([]*StatsReader, 0, len(paths))
	for _, path := range paths {
		r := &StatsReader{Path: path, engine: engine, max: max}
		if u, err := storage.ParseURI(path); err == nil && compress.FromExtension(path) == compress.None {
			if size, err := engine.Size(ctx, u); err == nil {
				r.BytesTotal = size
			}
		}
		readers = append(readers, r)
	}
	return readers
}

func (s *StatsReader) BytesRead() int64 {
	return atomic.LoadInt64(&s.bytesRead)
}

// ReadAll decompresses and reads the whole input.
func (s *StatsReader) ReadAll(ctx context.Context) ([]byte, error) {
	rc, err := anyio.Open(ctx, s.engine, s.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return convert.ReadInput(&countingReader{r: rc, n: &s.bytesRead}, s.max)
}

type countingReader struct {
	r io.Reader
	n *int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	atomic.AddInt64(c.n, int64(n))
	return n, err
}
