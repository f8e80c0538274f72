package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/brimdata/pqjson/pkg/fs"
	"github.com/brimdata/pqjson/zqe"
)

// FileSystem is the Engine for file URIs.  Put writes through an
// fs.Replacer, so a destination file is either absent, left as it was, or
// replaced whole.
type FileSystem struct {
	perm os.FileMode
}

var _ Engine = (*FileSystem)(nil)

func NewFileSystem() *FileSystem {
	return &FileSystem{perm: 0666}
}

func (f *FileSystem) Get(_ context.Context, u *URI) (Reader, error) {
	r, err := os.Open(u.Filepath())
	if err != nil {
		return nil, wrapfileError(u, err)
	}
	return &fileSizer{r}, nil
}

func (f *FileSystem) Put(_ context.Context, u *URI) (io.WriteCloser, error) {
	path := u.Filepath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, wrapfileError(u, err)
	}
	w, err := fs.NewFileReplacer(path, f.perm)
	if err != nil {
		return nil, wrapfileError(u, err)
	}
	return w, nil
}

func (f *FileSystem) Size(_ context.Context, u *URI) (int64, error) {
	info, err := os.Stat(u.Filepath())
	if err != nil {
		return 0, wrapfileError(u, err)
	}
	return info.Size(), nil
}

func (f *FileSystem) Exists(_ context.Context, u *URI) (bool, error) {
	_, err := os.Stat(u.Filepath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, wrapfileError(u, err)
	}
	return true, nil
}

func wrapfileError(uri *URI, err error) error {
	if os.IsNotExist(err) {
		return zqe.ErrNotFound("%s", uri)
	}
	return err
}

type fileSizer struct {
	*os.File
}

var _ Sizer = (*fileSizer)(nil)

func (f *fileSizer) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
