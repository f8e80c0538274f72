package route

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/fs"
	"github.com/brimdata/pqjson/zio/parquetio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const sampleJSON = `[` +
	`{"active":true,"id":1,"loc":{"lat":52.5,"lon":13.25},"name":"ada","score":0.5,"tags":["x","y"]},` +
	`{"active":null,"id":2,"loc":null,"name":"bob \"quoted\"","score":null,"tags":[]},` +
	`{"active":false,"id":3,"loc":null,"name":null,"score":1e-7,"tags":["z"]}` +
	`]`

type dirs struct {
	in, success, failure string
}

func newRouter(t *testing.T, conf Config) (*Router, dirs) {
	root := t.TempDir()
	d := dirs{
		in:      filepath.Join(root, "in"),
		success: filepath.Join(root, "success"),
		failure: filepath.Join(root, "failure"),
	}
	require.NoError(t, os.Mkdir(d.in, 0755))
	conf.SuccessDir = d.success
	conf.FailureDir = d.failure
	r, err := New(conf, zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
	require.NoError(t, err)
	return r, d
}

func writeFile(t *testing.T, path string, b []byte) {
	require.NoError(t, os.WriteFile(path, b, 0644))
}

func sample(t *testing.T) []byte {
	b, err := parquetio.EncodeSample(parquetio.WriterOpts{})
	require.NoError(t, err)
	return b
}

func names(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func TestRunOnce(t *testing.T) {
	r, d := newRouter(t, Config{Workers: 2, Attributes: true})
	garbage := []byte("PAR1 this is not really parquet PAR1")
	writeFile(t, filepath.Join(d.in, "good.parquet"), sample(t))
	writeFile(t, filepath.Join(d.in, "bad.parquet"), garbage)
	writeFile(t, filepath.Join(d.in, "notes.txt"), []byte("ignored"))

	results, err := r.RunOnce(context.Background(), d.in)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []string{"notes.txt"}, names(t, d.in))
	assert.Equal(t, []string{"good.json", "good.json.attrs.json"}, names(t, d.success))
	assert.Equal(t, []string{"bad.parquet", "bad.parquet.error.json"}, names(t, d.failure))

	b, err := os.ReadFile(filepath.Join(d.success, "good.json"))
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(b))

	var attrs map[string]interface{}
	require.NoError(t, fs.UnmarshalJSONFile(filepath.Join(d.success, "good.json.attrs.json"), &attrs))
	assert.Equal(t, "application/json", attrs["mime.type"])
	assert.Equal(t, "good.parquet", attrs["source"])
	assert.EqualValues(t, 3, attrs["rows"])

	b, err = os.ReadFile(filepath.Join(d.failure, "bad.parquet"))
	require.NoError(t, err)
	assert.Equal(t, garbage, b)
	var failure map[string]interface{}
	require.NoError(t, fs.UnmarshalJSONFile(filepath.Join(d.failure, "bad.parquet.error.json"), &failure))
	assert.Equal(t, "decode", failure["kind"])
	assert.Contains(t, failure["error"], "parquet read failed")
}

func TestProcessCompressed(t *testing.T) {
	r, d := newRouter(t, Config{Compression: compress.Gzip})
	path := filepath.Join(d.in, "sample.parquet")
	writeFile(t, path, sample(t))
	res, err := r.Process(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(d.success, "sample.json.gz"), res.Output)
	assert.EqualValues(t, 3, res.Stats.Rows)

	f, err := os.Open(res.Output)
	require.NoError(t, err)
	defer f.Close()
	zr, err := compress.NewReader(f)
	require.NoError(t, err)
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(b))
}

func TestProcessFailureLeavesNoOutput(t *testing.T) {
	r, d := newRouter(t, Config{})
	path := filepath.Join(d.in, "empty.parquet")
	writeFile(t, path, nil)
	res, err := r.Process(context.Background(), path)
	require.NoError(t, err)
	assert.Error(t, res.Err)
	assert.Empty(t, names(t, d.success))
	assert.Equal(t, []string{"empty.parquet"}, names(t, d.failure))
}

func TestBadPattern(t *testing.T) {
	_, err := New(Config{SuccessDir: t.TempDir(), FailureDir: t.TempDir(), Pattern: "["}, zap.NewNop())
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	r, d := newRouter(t, Config{Settle: 20 * time.Millisecond})
	writeFile(t, filepath.Join(d.in, "before.parquet"), sample(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- r.Watch(ctx, d.in)
	}()
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(d.success, "before.json"))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	writeFile(t, filepath.Join(d.in, "after.parquet"), sample(t))
	require.Eventually(t, func() bool {
		b, err := os.ReadFile(filepath.Join(d.success, "after.json"))
		return err == nil && bytes.Equal(b, []byte(sampleJSON))
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
