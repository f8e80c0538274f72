package jsonio

import (
	"io"

	"github.com/brimdata/pqjson"
)

// Writer writes records as the elements of a single JSON array, or as
// newline-delimited objects when WriterOpts.NDJSON is set.  After a Write
// error the output is unusable; Close then only closes the underlying
// writer.
type Writer struct {
	closer io.Closer
	fields []pqjson.Field
	enc    encoder
	count  int64
	err    error
}

func NewWriter(wc io.WriteCloser, fields []pqjson.Field, opts WriterOpts) *Writer {
	return &Writer{
		closer: wc,
		fields: fields,
		enc:    encoder{opts: opts, w: wc},
	}
}

func (w *Writer) Write(rec pqjson.Record) error {
	if w.err != nil {
		return w.err
	}
	if !w.enc.opts.NDJSON {
		if w.count == 0 {
			w.enc.buf = append(w.enc.buf, '[')
		} else {
			w.enc.buf = append(w.enc.buf, ',')
		}
	}
	err := w.enc.group(rec, w.fields)
	if err == nil {
		if w.enc.opts.NDJSON {
			w.enc.buf = append(w.enc.buf, '\n')
		}
		w.count++
		err = w.enc.maybeFlush()
	}
	w.err = err
	return err
}

// Count returns the number of records written.
func (w *Writer) Count() int64 {
	return w.count
}

// Size returns the number of bytes handed to the underlying writer.
func (w *Writer) Size() int64 {
	return w.enc.flushed
}

func (w *Writer) Close() error {
	if w.err != nil {
		return w.closer.Close()
	}
	if !w.enc.opts.NDJSON {
		if w.count == 0 {
			w.enc.buf = append(w.enc.buf, '[')
		}
		w.enc.buf = append(w.enc.buf, ']')
	}
	err := w.enc.flush()
	if closeErr := w.closer.Close(); err == nil {
		err = closeErr
	}
	return err
}
