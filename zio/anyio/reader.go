package anyio

import (
	"bytes"
	"context"
	"errors"

	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio"
)

var ErrNotParquet = errors.New("not a parquet file")

var magic = []byte("PAR1")

type ReaderOpts struct {
	Decoder string
}

// NewReader returns a decoder for the Parquet payload in src.  The payload
// must begin and end with the Parquet magic number.
func NewReader(ctx context.Context, src *storage.ByteSource, opts ReaderOpts) (zio.Decoder, error) {
	if err := CheckDecoder(opts.Decoder); err != nil {
		return nil, err
	}
	if err := checkMagic(src); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return lookupDecoder(src, opts.Decoder)
}

func checkMagic(src *storage.ByteSource) error {
	size := src.Size()
	// Header, footer length, and trailer.
	if size < int64(2*len(magic)+4) {
		return ErrNotParquet
	}
	b := make([]byte, len(magic))
	if _, err := src.ReadAt(b, 0); err != nil || !bytes.Equal(b, magic) {
		return ErrNotParquet
	}
	if _, err := src.ReadAt(b, size-int64(len(magic))); err != nil || !bytes.Equal(b, magic) {
		return ErrNotParquet
	}
	return nil
}
