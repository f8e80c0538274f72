package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

// StdioEngine serves stdio:stdin for reading and stdio:stdout for writing.
type StdioEngine struct {
	stdin  io.Reader
	stdout io.Writer
}

var _ Engine = (*StdioEngine)(nil)

func NewStdioEngine() *StdioEngine {
	return &StdioEngine{stdin: os.Stdin, stdout: os.Stdout}
}

func (s *StdioEngine) Get(_ context.Context, u *URI) (Reader, error) {
	if u.Opaque != "stdin" {
		return nil, fmt.Errorf("%s: cannot read from %q", u, u.Opaque)
	}
	return &stdioReader{s.stdin}, nil
}

func (s *StdioEngine) Put(_ context.Context, u *URI) (io.WriteCloser, error) {
	if u.Opaque != "stdout" {
		return nil, fmt.Errorf("%s: cannot write to %q", u, u.Opaque)
	}
	return &nopCloser{s.stdout}, nil
}

func (*StdioEngine) Exists(_ context.Context, u *URI) (bool, error) {
	return u.Opaque == "stdin" || u.Opaque == "stdout", nil
}

func (*StdioEngine) Size(context.Context, *URI) (int64, error) {
	return 0, ErrNotSupported
}

type stdioReader struct {
	io.Reader
}

func (*stdioReader) ReadAt([]byte, int64) (int, error) { return 0, ErrNotSupported }
func (*stdioReader) Close() error                      { return nil }

type nopCloser struct {
	io.Writer
}

func (*nopCloser) Close() error { return nil }
