package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeBuffer struct {
	bytes.Buffer
	closed  bool
	aborted bool
}

func (c *closeBuffer) Close() error {
	c.closed = true
	return nil
}

func (c *closeBuffer) Abort() {
	c.aborted = true
}

func TestRoundTrip(t *testing.T) {
	payload := strings.Repeat(`{"id":1,"name":"ada"},`, 200)
	for _, f := range []Format{None, Gzip, LZ4, Zstd} {
		var buf closeBuffer
		w, err := NewWriter(&buf, f)
		require.NoError(t, err)
		_, err = io.WriteString(w, payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.True(t, buf.closed, "format %s", f)
		assert.Equal(t, f, Detect(buf.Bytes()), "format %s", f)

		r, err := NewReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, payload, string(b), "format %s", f)
	}
}

func TestReaderShortInput(t *testing.T) {
	r, err := NewReader(strings.NewReader("PA"))
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "PA", string(b))
}

func TestAbort(t *testing.T) {
	var buf closeBuffer
	w, err := NewWriter(&buf, Gzip)
	require.NoError(t, err)
	w.(interface{ Abort() }).Abort()
	assert.True(t, buf.aborted)
	assert.False(t, buf.closed)
}

func TestFormatFlag(t *testing.T) {
	var f Format
	require.NoError(t, f.Set("zst"))
	assert.Equal(t, Zstd, f)
	assert.Equal(t, ".zst", f.Extension())
	require.NoError(t, f.Set("none"))
	assert.Equal(t, "none", f.String())
	assert.Error(t, f.Set("brotli"))
	assert.Equal(t, LZ4, FromExtension("out.json.lz4"))
	assert.Equal(t, None, FromExtension("out.json"))
}
