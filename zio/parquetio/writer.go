package parquetio

import (
	"bytes"
	"io"
	"strings"

	"github.com/brimdata/pqjson/zio"
	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"
	"go.uber.org/multierr"
)

type WriterOpts struct {
	// Codec names a Parquet compression codec, e.g., "snappy" or
	// "gzip".  The default is uncompressed.
	Codec string
	// RowGroupSize is the number of rows per row group.  Zero means all
	// rows go into one row group.
	RowGroupSize int
}

// Writer encodes rows given as nested maps (groups as map[string]interface{},
// repeated fields as slices) into a Parquet file whose schema is given in
// Parquet message syntax.
type Writer struct {
	w     io.WriteCloser
	fw    *goparquet.FileWriter
	opts  WriterOpts
	count int
}

func NewWriter(w io.WriteCloser, schema string, opts WriterOpts) (*Writer, error) {
	sd, err := parquetschema.ParseSchemaDefinition(schema)
	if err != nil {
		return nil, err
	}
	codec := parquet.CompressionCodec_UNCOMPRESSED
	if opts.Codec != "" {
		codec, err = parquet.CompressionCodecFromString(strings.ToUpper(opts.Codec))
		if err != nil {
			return nil, err
		}
	}
	fw := goparquet.NewFileWriter(w,
		goparquet.WithSchemaDefinition(sd),
		goparquet.WithCompressionCodec(codec),
		goparquet.WithCreator("pq2json"),
	)
	return &Writer{w: w, fw: fw, opts: opts}, nil
}

func (w *Writer) Write(row map[string]interface{}) error {
	if err := w.fw.AddData(row); err != nil {
		return err
	}
	w.count++
	if w.opts.RowGroupSize > 0 && w.count%w.opts.RowGroupSize == 0 {
		return w.fw.FlushRowGroup()
	}
	return nil
}

func (w *Writer) Close() error {
	return multierr.Append(w.fw.Close(), w.w.Close())
}

// Encode returns rows written as a Parquet file with the given schema.
func Encode(schema string, opts WriterOpts, rows ...map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(zio.NopCloser(&buf), schema, opts)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
