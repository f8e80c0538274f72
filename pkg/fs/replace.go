package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

var ErrAborted = errors.New("replacer aborted")

// Replacer is an io.WriteCloser that atomically creates or replaces a
// file.  Output goes to a temporary file in the same directory.  Close
// renames it over the target and Abort removes it, leaving the target
// untouched.  Exactly one of Close or Abort takes effect; later calls are
// no-ops.
type Replacer struct {
	f        *os.File
	err      error
	filename string
	perm     os.FileMode
	done     bool
}

func NewFileReplacer(filename string, perm os.FileMode) (*Replacer, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(filename), ".tmp-"+filepath.Base(filename)+"-*")
	if err != nil {
		return nil, err
	}
	return &Replacer{
		f:        f,
		filename: filename,
		perm:     perm,
	}, nil
}

// Name returns the absolute path of the file being replaced.
func (r *Replacer) Name() string {
	return r.filename
}

func (r *Replacer) Write(b []byte) (int, error) {
	if r.done {
		return 0, os.ErrClosed
	}
	n, err := r.f.Write(b)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}

func (r *Replacer) Abort() {
	if r.err == nil {
		r.err = ErrAborted
	}
	_ = r.finish()
}

func (r *Replacer) Close() error {
	return r.finish()
}

func (r *Replacer) finish() (err error) {
	if r.done {
		return nil
	}
	r.done = true
	defer func() {
		if err != nil {
			os.Remove(r.f.Name())
		}
	}()
	if err := r.f.Close(); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	if err := os.Chmod(r.f.Name(), r.perm); err != nil {
		return err
	}
	return os.Rename(r.f.Name(), r.filename)
}

// ReplaceFile atomically replaces the file name with what fn writes.  If
// fn fails, the file is left as it was.
func ReplaceFile(name string, perm os.FileMode, fn func(w io.Writer) error) error {
	r, err := NewFileReplacer(name, perm)
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		r.Abort()
		return err
	}
	return r.Close()
}

// Move renames src to dst, falling back to copy and remove when they are
// on different file systems.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	err = ReplaceFile(dst, info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return err
	}
	return os.Remove(src)
}
