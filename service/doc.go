// Package service provides HTTP endpoints for converting Parquet payloads
// to JSON.
//
// Schemes: http
// Consumes:
// - application/octet-stream
// - application/vnd.apache.parquet
// Produces:
// - application/json
// - application/x-ndjson
// Version: v1.0.0
// swagger:meta
package service
