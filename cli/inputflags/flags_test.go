package inputflags

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio/parquetio"
	"github.com/brimdata/pqjson/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Flags {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	require.NoError(t, f.Init())
	return &f
}

func writeInputs(t *testing.T) (string, string, []byte) {
	b, err := parquetio.EncodeSample(parquetio.WriterOpts{})
	require.NoError(t, err)
	dir := t.TempDir()
	plain := filepath.Join(dir, "sample.parquet")
	require.NoError(t, os.WriteFile(plain, b, 0644))
	gz := filepath.Join(dir, "sample.parquet.gz")
	f, err := os.Create(gz)
	require.NoError(t, err)
	w, err := compress.NewWriter(f, compress.Gzip)
	require.NoError(t, err)
	_, err = w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return plain, gz, b
}

func TestStatsReaders(t *testing.T) {
	plain, gz, b := writeInputs(t)
	ctx := context.Background()
	f := parse(t)
	readers := f.NewStatsReaders(ctx, storage.NewLocalEngine(), []string{plain, gz})
	require.Len(t, readers, 2)

	assert.EqualValues(t, len(b), readers[0].BytesTotal)
	out, err := readers[0].ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, out)
	assert.EqualValues(t, len(b), readers[0].BytesRead())

	// Sizes of compressed inputs say nothing about decompressed bytes.
	assert.Zero(t, readers[1].BytesTotal)
	out, err = readers[1].ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, out)
	assert.EqualValues(t, len(b), readers[1].BytesRead())
}

func TestStatsReaderMaxInput(t *testing.T) {
	plain, _, _ := writeInputs(t)
	ctx := context.Background()
	f := parse(t, "-maxinput", "16B")
	r := f.NewStatsReaders(ctx, storage.NewLocalEngine(), []string{plain})[0]
	_, err := r.ReadAll(ctx)
	assert.True(t, zqe.IsKind(err, zqe.TooLarge), "%v", err)
}

func TestMissingInput(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missing.parquet")
	r := parse(t).NewStatsReaders(ctx, storage.NewLocalEngine(), []string{path})[0]
	assert.Zero(t, r.BytesTotal)
	_, err := r.ReadAll(ctx)
	assert.True(t, zqe.IsKind(err, zqe.NotFound), "%v", err)
}

func TestBadDecoder(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-decoder", "arow"}))
	assert.ErrorContains(t, f.Init(), `did you mean "arrow"`)
}
