package storage

import (
	"net/url"
	"path"
)

type Scheme string

const (
	FileScheme  = Scheme("file")
	StdioScheme = Scheme("stdio")
	HTTPScheme  = Scheme("http")
	HTTPSScheme = Scheme("https")
	S3Scheme    = Scheme("s3")
)

func knownScheme(s Scheme) bool {
	switch s {
	case FileScheme, StdioScheme, HTTPScheme, HTTPSScheme, S3Scheme:
		return true
	}
	return false
}

func getScheme(u *URI) (Scheme, bool) {
	s := Scheme(u.Scheme)
	return s, knownScheme(s)
}

type URI url.URL

// ParseURI parses the path using `url.Parse`. If the provided uri does not
// contain a scheme, the scheme is set to file. Relative paths are
// treated as files and resolved as absolute paths using filepath.Abs.
// The path "-" means stdio:stdin.
func ParseURI(path string) (*URI, error) {
	if path == "" {
		return &URI{}, nil
	}
	if path == "-" {
		return &URI{Scheme: string(StdioScheme), Opaque: "stdin"}, nil
	}
	u, err := url.Parse(path)
	if err != nil || !knownScheme(Scheme(u.Scheme)) {
		// If we don't know the scheme, either it's empty string,
		// implying a file, or it's a file path with a colon embedded,
		// so we parse it either way as a file.
		return parseBarePath(path)
	}
	return (*URI)(u), nil
}

func MustParseURI(path string) *URI {
	u, err := ParseURI(path)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URI) String() string {
	return (*url.URL)(&u).String()
}

func (u *URI) HasScheme(s Scheme) bool {
	return Scheme(u.Scheme) == s
}

// Base returns the last element of the URI path.
func (u *URI) Base() string {
	if u.Opaque != "" {
		return u.Opaque
	}
	return path.Base(u.Path)
}

func (u *URI) IsZero() bool {
	return *u == URI{}
}

func (u *URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *URI) UnmarshalText(b []byte) error {
	uri, err := ParseURI(string(b))
	if err != nil {
		return err
	}
	*u = *uri
	return nil
}
