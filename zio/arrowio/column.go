package arrowio

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/brimdata/pqjson"
)

const batchSize = 1024

var errLevels = errors.New("repetition and definition levels do not match the schema")

// column is one leaf column chunk of a row group, read in full.  Its values
// hold only the entries whose definition level is the column maximum.
type column struct {
	name   string
	path   []step
	maxDef int16
	defs   []int16
	reps   []int16
	values []interface{}
	// pos and vpos are the next level entry and the next value.  cur
	// holds the element index within each repeated step of the path.
	pos  int
	vpos int
	cur  []int
}

func loadColumn(cr file.ColumnChunkReader, path []step) (*column, error) {
	descr := cr.Descriptor()
	c := &column{
		name:   descr.Path(),
		path:   path,
		maxDef: descr.MaxDefinitionLevel(),
		cur:    make([]int, len(path)),
	}
	if want := path[len(path)-1].def; want != c.maxDef {
		return nil, fmt.Errorf("%s: maximum definition level %d does not match schema (%d)", c.name, c.maxDef, want)
	}
	var err error
	switch cr := cr.(type) {
	case *file.BooleanColumnChunkReader:
		err = load(c, cr.ReadBatch, box[bool])
	case *file.Int32ColumnChunkReader:
		err = load(c, cr.ReadBatch, box[int32])
	case *file.Int64ColumnChunkReader:
		err = load(c, cr.ReadBatch, box[int64])
	case *file.Int96ColumnChunkReader:
		err = load(c, cr.ReadBatch, func(v parquet.Int96) interface{} {
			return pqjson.Int96(v)
		})
	case *file.Float32ColumnChunkReader:
		err = load(c, cr.ReadBatch, box[float32])
	case *file.Float64ColumnChunkReader:
		err = load(c, cr.ReadBatch, box[float64])
	case *file.ByteArrayColumnChunkReader:
		// Values point into page buffers that later reads reuse.
		err = load(c, cr.ReadBatch, func(v parquet.ByteArray) interface{} {
			return append([]byte{}, v...)
		})
	case *file.FixedLenByteArrayColumnChunkReader:
		err = load(c, cr.ReadBatch, func(v parquet.FixedLenByteArray) interface{} {
			return append([]byte{}, v...)
		})
	default:
		err = fmt.Errorf("unsupported physical type %s", cr.Type())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return c, nil
}

func box[T any](v T) interface{} {
	return v
}

func load[T any](c *column, read func(int64, []T, []int16, []int16) (int64, int, error), conv func(T) interface{}) error {
	vals := make([]T, batchSize)
	defs := make([]int16, batchSize)
	reps := make([]int16, batchSize)
	for {
		n, nvals, err := read(batchSize, vals, defs, reps)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		c.defs = append(c.defs, defs[:n]...)
		c.reps = append(c.reps, reps[:n]...)
		for _, v := range vals[:nvals] {
			c.values = append(c.values, conv(v))
		}
	}
}

func (c *column) done() bool {
	return c.pos == len(c.defs) && c.vpos == len(c.values)
}

// next adds the entries of the column's next row to row.
func (c *column) next(row *group) error {
	if c.pos >= len(c.defs) {
		return fmt.Errorf("%s: column ends before its row group", c.name)
	}
	if c.reps[c.pos] != 0 {
		return fmt.Errorf("%s: %w", c.name, errLevels)
	}
	for {
		if err := c.place(row, c.reps[c.pos], c.defs[c.pos]); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		c.pos++
		if c.pos >= len(c.defs) || c.reps[c.pos] == 0 {
			return nil
		}
	}
}

// place walks the column's path from row, creating the group instances
// the entry defines, and appends the entry's value when it is defined
// all the way down to the leaf.
func (c *column) place(row *group, rep, def int16) error {
	g := row
	last := len(c.path) - 1
	for k, s := range c.path {
		switch {
		case !s.repeated:
			c.cur[k] = 0
		case rep < s.rep:
			c.cur[k] = 0
		case rep == s.rep:
			c.cur[k]++
		}
		if def < s.def {
			return nil
		}
		slot := g.slots[s.field]
		i := c.cur[k]
		if k == last {
			if i != len(slot) || c.vpos >= len(c.values) {
				return errLevels
			}
			g.slots[s.field] = append(slot, c.values[c.vpos])
			c.vpos++
			return nil
		}
		switch {
		case i == len(slot):
			child := newGroup(s.width)
			g.slots[s.field] = append(slot, child)
			g = child
		case i < len(slot):
			g = slot[i].(*group)
		default:
			return errLevels
		}
	}
	return nil
}
