// Package parquetgoio decodes Parquet with github.com/parquet-go/parquet-go.
package parquetgoio

import (
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/zio"
	"github.com/parquet-go/parquet-go"
)

const batchSize = 256

type Reader struct {
	file   *parquet.File
	pr     *parquet.Reader
	schema *parquet.Schema
	fields []pqjson.Field

	rows  []parquet.Row
	n     int
	off   int
	eof   bool
	count int64
}

var _ zio.Decoder = (*Reader)(nil)

// NewReader opens r, which must also provide its size through a
// Size() int64 method or io.Seeker.
func NewReader(r io.ReaderAt) (*Reader, error) {
	size, err := sizeOf(r)
	if err != nil {
		return nil, err
	}
	file, err := parquet.OpenFile(r, size,
		parquet.SkipBloomFilters(true),
		parquet.SkipPageIndex(true),
	)
	if err != nil {
		return nil, err
	}
	schema := file.Schema()
	fields, err := newFields(schema.Fields())
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:   file,
		pr:     parquet.NewReader(file, schema),
		schema: schema,
		fields: fields,
		rows:   make([]parquet.Row, batchSize),
	}, nil
}

func sizeOf(r io.ReaderAt) (int64, error) {
	switch r := r.(type) {
	case interface{ Size() int64 }:
		return r.Size(), nil
	case io.Seeker:
		return r.Seek(0, io.SeekEnd)
	}
	return 0, errors.New("cannot determine size of input")
}

func (r *Reader) Fields() []pqjson.Field {
	return r.fields
}

func (r *Reader) Read() (pqjson.Record, error) {
	for r.off >= r.n {
		if r.eof {
			return nil, nil
		}
		n, err := r.pr.ReadRows(r.rows)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("row %d: %w", r.count, err)
			}
			r.eof = true
		}
		r.n, r.off = n, 0
	}
	row := r.rows[r.off]
	r.off++
	m := make(map[string]interface{}, len(r.fields))
	if err := r.schema.Reconstruct(&m, row); err != nil {
		return nil, fmt.Errorf("row %d: %w", r.count, err)
	}
	rec, err := pqjson.NewMapRecord(r.fields, m)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", r.count, err)
	}
	r.count++
	return rec, nil
}

func (r *Reader) Stats() zio.Stats {
	return zio.Stats{
		RowGroups: int64(len(r.file.RowGroups())),
		Rows:      r.count,
	}
}

func (r *Reader) Close() error {
	return r.pr.Close()
}
