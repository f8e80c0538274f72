package anyio

import (
	"context"
	"io"

	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/storage"
	"go.uber.org/multierr"
)

// Open uses engine to open path for reading.  path is a local file path,
// "-" for standard input, or a URI whose scheme is understood by engine.
// Input compressed with gzip, LZ4, or Zstandard is decompressed.
func Open(ctx context.Context, engine storage.Engine, path string) (io.ReadCloser, error) {
	uri, err := storage.ParseURI(path)
	if err != nil {
		return nil, err
	}
	f, err := engine.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	r, err := compress.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &file{r, f}, nil
}

type file struct {
	io.ReadCloser
	under io.Closer
}

func (f *file) Close() error {
	return multierr.Append(f.ReadCloser.Close(), f.under.Close())
}
