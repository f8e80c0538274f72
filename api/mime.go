package api

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

const (
	MediaTypeAny         = "*/*"
	MediaTypeJSON        = "application/json"
	MediaTypeNDJSON      = "application/x-ndjson"
	MediaTypeOctetStream = "application/octet-stream"
	MediaTypeParquet     = "application/vnd.apache.parquet"
)

type ErrUnsupportedMimeType struct {
	Type string
}

func (m *ErrUnsupportedMimeType) Error() string {
	return fmt.Sprintf("unsupported MIME type: %s", m.Type)
}

// CheckParquetMediaType accepts an empty Content-Type, a Parquet type, or
// application/octet-stream, which is what most clients send for a binary
// body.
func CheckParquetMediaType(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	typ, _, err := mime.ParseMediaType(s)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return err
	}
	switch typ {
	case MediaTypeAny, MediaTypeOctetStream, MediaTypeParquet, "application/x-parquet":
		return nil
	}
	return &ErrUnsupportedMimeType{typ}
}

// OutputMediaType returns the media type of JSON output in the given
// layout.
func OutputMediaType(ndjson bool) string {
	if ndjson {
		return MediaTypeNDJSON
	}
	return MediaTypeJSON
}
