// Package convert turns a complete Parquet payload into a JSON array with one
// object per row.  It ties together the in-memory byte source, a decoder
// backend chosen by name, and the JSON projector.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/pkg/units"
	"github.com/brimdata/pqjson/zio"
	"github.com/brimdata/pqjson/zio/anyio"
	"github.com/brimdata/pqjson/zio/jsonio"
	"github.com/brimdata/pqjson/zqe"
	"github.com/dustin/go-humanize"
	"github.com/pbnjay/memory"
	"go.uber.org/zap/zapcore"
)

// MediaType is the content type of the output.
const MediaType = "application/json"

const (
	minDefaultMaxInput = 64 * 1024 * 1024
	maxDefaultMaxInput = 4 * 1024 * 1024 * 1024
)

type Config struct {
	Decoder string            `yaml:"decoder"`
	JSON    jsonio.WriterOpts `yaml:"json"`
	// MaxInputSize bounds the bytes a host will materialize.  Zero
	// means DefaultMaxInputSize.
	MaxInputSize units.Bytes `yaml:"max_input_size"`
}

func (c Config) MaxInput() int64 {
	if c.MaxInputSize > 0 {
		return int64(c.MaxInputSize)
	}
	return DefaultMaxInputSize()
}

// DefaultMaxInputSize is a quarter of physical memory, clamped to
// [64MiB, 4GiB].
func DefaultMaxInputSize() int64 {
	n := int64(memory.TotalMemory() / 4)
	if n < minDefaultMaxInput {
		return minDefaultMaxInput
	}
	if n > maxDefaultMaxInput {
		return maxDefaultMaxInput
	}
	return n
}

type Stats struct {
	InputBytes  int64 `json:"input_bytes"`
	OutputBytes int64 `json:"output_bytes"`
	RowGroups   int64 `json:"row_groups"`
	Rows        int64 `json:"rows"`
}

func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("input", humanize.IBytes(uint64(s.InputBytes)))
	enc.AddString("output", humanize.IBytes(uint64(s.OutputBytes)))
	enc.AddInt64("row_groups", s.RowGroups)
	enc.AddInt64("rows", s.Rows)
	return nil
}

// ReadInput reads all of r, failing with a zqe.TooLarge error if r holds
// more than max bytes.
func ReadInput(r io.Reader, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, zqe.E(zqe.TooLarge, "input exceeds %s", humanize.IBytes(uint64(max)))
	}
	return b, nil
}

func readFailed(err error) error {
	return zqe.E(zqe.Decode, "parquet read failed: %w", err)
}

func open(ctx context.Context, input []byte, decoder string) (dec zio.Decoder, err error) {
	if err := anyio.CheckDecoder(decoder); err != nil {
		return nil, zqe.ErrInvalid(err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = readFailed(fmt.Errorf("panic: %v", r))
		}
	}()
	dec, err = anyio.NewReader(ctx, storage.NewByteSource(input), anyio.ReaderOpts{Decoder: decoder})
	if err != nil {
		return nil, readFailed(err)
	}
	if err := pqjson.Validate(dec.Fields()); err != nil {
		dec.Close()
		return nil, readFailed(err)
	}
	return dec, nil
}

// Convert writes the JSON projection of the Parquet payload input to w.  On
// error, w may have received a prefix of the output, which the caller should
// discard.
func Convert(ctx context.Context, input []byte, w io.Writer, conf Config) (stats Stats, err error) {
	stats.InputBytes = int64(len(input))
	dec, err := open(ctx, input, conf.Decoder)
	if err != nil {
		return stats, err
	}
	defer dec.Close()
	defer func() {
		if r := recover(); r != nil {
			err = readFailed(fmt.Errorf("panic: %v", r))
		}
	}()
	writer := jsonio.NewWriter(zio.NopCloser(w), dec.Fields(), conf.JSON)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec, err := dec.Read()
		if err != nil {
			return stats, readFailed(err)
		}
		if rec == nil {
			break
		}
		if err := writer.Write(rec); err != nil {
			if errors.Is(err, jsonio.ErrNonFinite) || errors.Is(err, jsonio.ErrRequiredMissing) {
				err = zqe.E(zqe.Decode, "json projection failed: row %d: %w", writer.Count(), err)
			}
			return stats, err
		}
	}
	if err := writer.Close(); err != nil {
		return stats, err
	}
	ds := dec.Stats()
	stats.RowGroups = ds.RowGroups
	stats.Rows = writer.Count()
	stats.OutputBytes = writer.Size()
	return stats, nil
}

// OutputName maps in.parquet to in.json, or in.ndjson, with the extension
// of the compression format c appended.  Compression extensions on path are
// dropped first.
func OutputName(path string, ndjson bool, c compress.Format) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".lz4", ".zst"} {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	format := "json"
	if ndjson {
		format = "ndjson"
	}
	return base + zio.Extension(format) + c.Extension()
}

// Schema returns the fields of the Parquet payload input.
func Schema(ctx context.Context, input []byte, decoder string) ([]pqjson.Field, error) {
	dec, err := open(ctx, input, decoder)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.Fields(), nil
}
