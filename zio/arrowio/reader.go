// Package arrowio decodes Parquet with the column chunk readers of the
// Apache Arrow Go Parquet library.  Rows are assembled from each column's
// repetition and definition levels onto the schema as written in the
// file, so LIST and MAP annotated groups keep their declared structure.
// All decoding happens on the goroutine that calls Read.
package arrowio

import (
	"fmt"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/zio"
)

type Reader struct {
	pr     *file.Reader
	fields []pqjson.Field
	paths  [][]step

	cols  []*column
	rg    int
	left  int64
	count int64
}

var _ zio.Decoder = (*Reader)(nil)

func NewReader(r parquet.ReaderAtSeeker) (*Reader, error) {
	pr, err := file.NewParquetReader(r)
	if err != nil {
		return nil, err
	}
	sch := pr.MetaData().Schema
	fields, paths, err := newFields(sch.Root())
	if err != nil {
		pr.Close()
		return nil, err
	}
	if len(paths) != sch.NumColumns() {
		pr.Close()
		return nil, fmt.Errorf("schema has %d leaf fields but %d columns", len(paths), sch.NumColumns())
	}
	return &Reader{
		pr:     pr,
		fields: fields,
		paths:  paths,
	}, nil
}

func (r *Reader) Fields() []pqjson.Field {
	return r.fields
}

func (r *Reader) Read() (pqjson.Record, error) {
	for r.left <= 0 {
		if r.rg >= r.pr.NumRowGroups() {
			return nil, nil
		}
		if err := r.loadRowGroup(r.rg); err != nil {
			return nil, fmt.Errorf("row group %d: %w", r.rg, err)
		}
		r.rg++
	}
	row := newGroup(len(r.fields))
	for _, c := range r.cols {
		if err := c.next(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.count, err)
		}
	}
	r.left--
	r.count++
	if r.left == 0 {
		for _, c := range r.cols {
			if !c.done() {
				return nil, fmt.Errorf("row group %d: %s: column holds more entries than the row group has rows", r.rg-1, c.name)
			}
		}
	}
	return row, nil
}

func (r *Reader) loadRowGroup(i int) error {
	rgr := r.pr.RowGroup(i)
	if n := rgr.NumColumns(); n != len(r.paths) {
		return fmt.Errorf("row group has %d columns, schema has %d", n, len(r.paths))
	}
	cols := make([]*column, len(r.paths))
	for k, path := range r.paths {
		cr, err := rgr.Column(k)
		if err != nil {
			return err
		}
		if cols[k], err = loadColumn(cr, path); err != nil {
			return err
		}
	}
	r.cols = cols
	r.left = rgr.NumRows()
	return nil
}

func (r *Reader) Stats() zio.Stats {
	return zio.Stats{
		RowGroups: int64(r.pr.NumRowGroups()),
		Rows:      r.count,
	}
}

func (r *Reader) Close() error {
	r.cols = nil
	return r.pr.Close()
}
