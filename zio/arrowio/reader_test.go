package arrowio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio"
	"github.com/brimdata/pqjson/zio/jsonio"
	"github.com/brimdata/pqjson/zio/parquetio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[` +
	`{"active":true,"id":1,"loc":{"lat":52.5,"lon":13.25},"name":"ada","score":0.5,"tags":["x","y"]},` +
	`{"active":null,"id":2,"loc":null,"name":"bob \"quoted\"","score":null,"tags":[]},` +
	`{"active":false,"id":3,"loc":null,"name":null,"score":1e-7,"tags":["z"]}` +
	`]`

func convert(t *testing.T, r zio.Reader) string {
	t.Helper()
	var buf bytes.Buffer
	w := jsonio.NewWriter(zio.NopCloser(&buf), r.Fields(), jsonio.WriterOpts{})
	require.NoError(t, zio.Copy(w, r))
	require.NoError(t, w.Close())
	return buf.String()
}

func TestReaderSample(t *testing.T) {
	b, err := parquetio.EncodeSample(parquetio.WriterOpts{Codec: "snappy"})
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, convert(t, r))
	assert.Equal(t, zio.Stats{RowGroups: 1, Rows: 3}, r.Stats())
	require.NoError(t, r.Close())
}

func TestReaderFields(t *testing.T) {
	b, err := parquetio.EncodeSample(parquetio.WriterOpts{})
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	defer r.Close()
	fields := r.Fields()
	require.Len(t, fields, 6)
	assert.Equal(t, pqjson.NewPrimitive("id", pqjson.KindInt64, pqjson.Required), fields[1])
	assert.Equal(t, pqjson.KindGroup, fields[2].Kind)
	assert.Equal(t, pqjson.Repeated, fields[5].Repetition)
}

func TestReaderInt96(t *testing.T) {
	const schema = `message m { required int96 ts; }`
	b, err := parquetio.Encode(schema, parquetio.WriterOpts{},
		map[string]interface{}{"ts": [12]byte(pqjson.NewInt96(1500, 2440588))})
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, `[{"ts":"1970-01-01T00:00:00.0000015Z"}]`, convert(t, r))
}

func TestReaderBatches(t *testing.T) {
	rows := make([]map[string]interface{}, 3000)
	for i := range rows {
		rows[i] = map[string]interface{}{"n": int64(i)}
	}
	b, err := parquetio.Encode("message m { required int64 n; }", parquetio.WriterOpts{RowGroupSize: 1000}, rows...)
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	defer r.Close()
	out := convert(t, r)
	assert.True(t, strings.HasPrefix(out, `[{"n":0},{"n":1},`))
	assert.True(t, strings.HasSuffix(out, `,{"n":2999}]`))
	assert.Equal(t, zio.Stats{RowGroups: 3, Rows: 3000}, r.Stats())
}

func TestReaderNotParquet(t *testing.T) {
	_, err := NewReader(storage.NewByteSource([]byte("definitely not parquet")))
	assert.Error(t, err)
}

func TestReaderNested(t *testing.T) {
	b, err := parquetio.Encode(parquetio.NestedSchema, parquetio.WriterOpts{}, parquetio.NestedRows()...)
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	defer r.Close()
	fields := r.Fields()
	require.Len(t, fields, 2)
	xs := fields[0]
	assert.Equal(t, pqjson.Optional, xs.Repetition)
	require.Len(t, xs.Fields, 1)
	assert.Equal(t, pqjson.Repeated, xs.Fields[0].Repetition)
	assert.Equal(t, pqjson.NewPrimitive("element", pqjson.KindInt32, pqjson.Optional), xs.Fields[0].Fields[0])
	expected := `[` +
		`{"xs":{"list":[{"element":1},{"element":2}]},"m":{"key_value":[{"key":"a","value":7}]}},` +
		`{"xs":null,"m":null},` +
		`{"xs":{"list":[{"element":3}]},"m":{"key_value":[{"key":"b","value":null},{"key":"c","value":9}]}}` +
		`]`
	assert.Equal(t, expected, convert(t, r))
}

func TestReaderRepeatedGroups(t *testing.T) {
	const schema = `message m {
  required int32 id;
  repeated group kv {
    required binary k (STRING);
    repeated int64 vs;
  }
}`
	b, err := parquetio.Encode(schema, parquetio.WriterOpts{},
		map[string]interface{}{
			"id": int32(1),
			"kv": []map[string]interface{}{
				{"k": []byte("a"), "vs": []int64{1, 2}},
				{"k": []byte("b")},
				{"k": []byte("c"), "vs": []int64{3}},
			},
		},
		map[string]interface{}{"id": int32(2)},
	)
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	defer r.Close()
	expected := `[` +
		`{"id":1,"kv":[{"k":"a","vs":[1,2]},{"k":"b","vs":[]},{"k":"c","vs":[3]}]},` +
		`{"id":2,"kv":[]}` +
		`]`
	assert.Equal(t, expected, convert(t, r))
}
