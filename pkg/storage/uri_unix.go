//go:build !windows

package storage

import (
	"net/url"
	"path/filepath"
)

func parseBarePath(path string) (*URI, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &URI{Scheme: string(FileScheme), Path: path}, nil
}

func (u URI) Filepath() string {
	return (*url.URL)(&u).Path
}
