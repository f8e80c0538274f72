package parquetio

import (
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/zio"
	goparquet "github.com/fraugster/parquet-go"
)

// Reader decodes Parquet with github.com/fraugster/parquet-go, which
// assembles each row as nested Go maps.
type Reader struct {
	fr     *goparquet.FileReader
	fields []pqjson.Field
	rows   int64
}

var _ zio.Decoder = (*Reader)(nil)

func NewReader(r io.Reader) (*Reader, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, errors.New("reader cannot seek")
	}
	fr, err := goparquet.NewFileReader(rs)
	if err != nil {
		return nil, err
	}
	fields, err := newFields(fr.GetSchemaDefinition().RootColumn.Children)
	if err != nil {
		return nil, err
	}
	return &Reader{
		fr:     fr,
		fields: fields,
	}, nil
}

func (r *Reader) Fields() []pqjson.Field {
	return r.fields
}

func (r *Reader) Read() (pqjson.Record, error) {
	data, err := r.fr.NextRow()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("row %d: %w", r.rows, err)
	}
	rec, err := pqjson.NewMapRecord(r.fields, data)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", r.rows, err)
	}
	r.rows++
	return rec, nil
}

func (r *Reader) Stats() zio.Stats {
	return zio.Stats{
		RowGroups: int64(r.fr.RowGroupCount()),
		Rows:      r.rows,
	}
}

func (r *Reader) Close() error {
	return nil
}
