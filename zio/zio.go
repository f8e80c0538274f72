package zio

import (
	"context"
	"io"

	"github.com/brimdata/pqjson"
)

func Extension(format string) string {
	switch format {
	case "json":
		return ".json"
	case "ndjson":
		return ".ndjson"
	case "parquet":
		return ".parquet"
	default:
		return ""
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Reader wraps the Fields and Read methods.
//
// Fields returns the schema of the records returned by Read.
//
// Read returns the next record and a nil error, a nil record and the next
// error, or a nil record and nil error to indicate that no records remain.
//
// Read never returns a non-nil record and non-nil error together, and it never
// returns io.EOF.  A record may share memory with the Reader and is valid
// only until the next call to Read.
type Reader interface {
	Fields() []pqjson.Field
	Read() (pqjson.Record, error)
}

type Writer interface {
	Write(pqjson.Record) error
}

type WriteCloser interface {
	Writer
	io.Closer
}

// Stats describes the input consumed by a Decoder so far.
type Stats struct {
	RowGroups int64 `json:"row_groups"`
	Rows      int64 `json:"rows"`
}

// Decoder is a Reader over one Parquet payload.
type Decoder interface {
	Reader
	Stats() Stats
	io.Closer
}

// Copy copies src to dst a la io.Copy.
func Copy(dst Writer, src Reader) error {
	return CopyWithContext(context.Background(), dst, src)
}

func CopyWithContext(ctx context.Context, dst Writer, src Reader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := src.Read()
		if err != nil || rec == nil {
			return err
		}
		if err := dst.Write(rec); err != nil {
			return err
		}
	}
}
