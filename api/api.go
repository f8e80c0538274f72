// Package api defines the request and response types of the conversion
// service.
package api

import (
	"context"

	"github.com/brimdata/pqjson"
)

const (
	RequestIDHeader = "X-Request-ID"
	// RowCountHeader carries the number of rows in a conversion response.
	RowCountHeader = "X-Row-Count"
	// CacheHeader is "hit" when a conversion response came from the
	// result cache and "miss" otherwise.
	CacheHeader = "X-Cache"
)

type requestIDKey struct{}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey{}); v != nil {
		return v.(string)
	}
	return ""
}

type Error struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

type VersionResponse struct {
	Version string `json:"version"`
}

type SchemaResponse struct {
	Fields []pqjson.Field `json:"fields"`
	// Message is the schema in Parquet message syntax.
	Message string `json:"message"`
}

type StatusResponse struct {
	Status      string `json:"status"`
	Conversions int64  `json:"conversions"`
	Failures    int64  `json:"failures"`
	CacheItems  int    `json:"cache_items"`
}

// ConvertOpts are the query parameters of a conversion request.
type ConvertOpts struct {
	Decoder   string
	NDJSON    bool
	NonFinite string
	Strict    bool
}
