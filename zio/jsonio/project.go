package jsonio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/brimdata/pqjson"
)

var (
	ErrNonFinite       = errors.New("non-finite float has no JSON representation")
	ErrRequiredMissing = errors.New("required field has no value")
)

// flushThresh is the buffered output size past which an encoder with a
// sink hands its buffer to the sink at the next field boundary.
const flushThresh = 64 * 1024

type WriterOpts struct {
	NonFinite NonFinite `yaml:"nonfinite"`
	// Strict fails on a required field with no value instead of
	// writing null.
	Strict bool `yaml:"strict"`
	// NDJSON writes one object per line instead of a JSON array.
	NDJSON bool `yaml:"ndjson"`
}

// encoder projects records onto JSON text, appending to buf.  If w is not
// nil, buf is written out whenever it grows past flushThresh, so memory
// use follows nesting depth and leaf size rather than record size.
type encoder struct {
	opts    WriterOpts
	buf     []byte
	w       io.Writer
	flushed int64
}

func (e *encoder) flush() error {
	if len(e.buf) == 0 || e.w == nil {
		return nil
	}
	n, err := e.w.Write(e.buf)
	e.flushed += int64(n)
	e.buf = e.buf[:0]
	return err
}

func (e *encoder) maybeFlush() error {
	if len(e.buf) < flushThresh {
		return nil
	}
	return e.flush()
}

// group writes rec as a JSON object with one key per field, in order.
func (e *encoder) group(rec pqjson.Record, fields []pqjson.Field) error {
	e.buf = append(e.buf, '{')
	for i := range fields {
		f := &fields[i]
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.buf = AppendString(e.buf, f.Name)
		e.buf = append(e.buf, ':')
		if err := e.field(rec, f, i); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		if e.w != nil {
			if err := e.maybeFlush(); err != nil {
				return err
			}
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) field(rec pqjson.Record, f *pqjson.Field, i int) error {
	n := rec.RepetitionCount(i)
	if f.Repetition == pqjson.Repeated {
		e.buf = append(e.buf, '[')
		for r := 0; r < n; r++ {
			if r > 0 {
				e.buf = append(e.buf, ',')
			}
			if err := e.value(rec, f, i, r); err != nil {
				return err
			}
		}
		e.buf = append(e.buf, ']')
		return nil
	}
	if n == 0 {
		// A required field with no value is written as null unless
		// strict.
		if f.Repetition == pqjson.Required && e.opts.Strict {
			return ErrRequiredMissing
		}
		e.buf = append(e.buf, "null"...)
		return nil
	}
	return e.value(rec, f, i, 0)
}

func (e *encoder) value(rec pqjson.Record, f *pqjson.Field, i, r int) error {
	switch f.Kind {
	case pqjson.KindByteArray, pqjson.KindFixedLenByteArray:
		e.buf = AppendString(e.buf, rec.Binary(i, r))
	case pqjson.KindInt96:
		e.buf = AppendString(e.buf, rec.Int96(i, r).String())
	case pqjson.KindInt32:
		e.buf = strconv.AppendInt(e.buf, int64(rec.Int32(i, r)), 10)
	case pqjson.KindInt64:
		e.buf = strconv.AppendInt(e.buf, rec.Int64(i, r), 10)
	case pqjson.KindFloat:
		return e.float(float64(rec.Float(i, r)), 32)
	case pqjson.KindDouble:
		return e.float(rec.Double(i, r), 64)
	case pqjson.KindBool:
		e.buf = strconv.AppendBool(e.buf, rec.Bool(i, r))
	case pqjson.KindGroup:
		return e.group(rec.Group(i, r), f.Fields)
	default:
		e.buf = AppendString(e.buf, rec.ValueString(i, r))
	}
	return nil
}

func (e *encoder) float(f float64, bits int) error {
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		e.buf = appendFloat(e.buf, f, bits)
		return nil
	}
	s := nonFiniteSpelling(f)
	switch e.opts.NonFinite {
	case NonFiniteNull:
		e.buf = append(e.buf, "null"...)
	case NonFiniteString:
		e.buf = AppendString(e.buf, s)
	case NonFiniteError:
		return fmt.Errorf("%w: %s", ErrNonFinite, s)
	default:
		e.buf = append(e.buf, s...)
	}
	return nil
}

// AppendRecord appends the JSON object for rec, whose schema is fields, to
// dst.
func AppendRecord(dst []byte, rec pqjson.Record, fields []pqjson.Field, opts WriterOpts) ([]byte, error) {
	e := encoder{opts: opts, buf: dst}
	err := e.group(rec, fields)
	return e.buf, err
}
