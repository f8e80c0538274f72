package parquetio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio/jsonio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[` +
	`{"active":true,"id":1,"loc":{"lat":52.5,"lon":13.25},"name":"ada","score":0.5,"tags":["x","y"]},` +
	`{"active":null,"id":2,"loc":null,"name":"bob \"quoted\"","score":null,"tags":[]},` +
	`{"active":false,"id":3,"loc":null,"name":null,"score":1e-7,"tags":["z"]}` +
	`]`

func project(t *testing.T, r *Reader) string {
	t.Helper()
	var out bytes.Buffer
	out.WriteByte('[')
	for i := 0; ; i++ {
		rec, err := r.Read()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		if i > 0 {
			out.WriteByte(',')
		}
		b, err := jsonio.AppendRecord(nil, rec, r.Fields(), jsonio.WriterOpts{})
		require.NoError(t, err)
		out.Write(b)
	}
	out.WriteByte(']')
	return out.String()
}

func TestReaderSample(t *testing.T) {
	for _, codec := range []string{"", "snappy", "gzip"} {
		b, err := EncodeSample(WriterOpts{Codec: codec})
		require.NoError(t, err)
		r, err := NewReader(storage.NewByteSource(b))
		require.NoError(t, err)
		assert.Equal(t, sampleJSON, project(t, r), "codec %q", codec)
		assert.EqualValues(t, 3, r.Stats().Rows)
		assert.EqualValues(t, 1, r.Stats().RowGroups)
		require.NoError(t, r.Close())
	}
}

func TestReaderFields(t *testing.T) {
	b, err := EncodeSample(WriterOpts{})
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	expected := []pqjson.Field{
		pqjson.NewPrimitive("active", pqjson.KindBool, pqjson.Optional),
		pqjson.NewPrimitive("id", pqjson.KindInt64, pqjson.Required),
		pqjson.NewGroup("loc", pqjson.Optional,
			pqjson.NewPrimitive("lat", pqjson.KindDouble, pqjson.Required),
			pqjson.NewPrimitive("lon", pqjson.KindDouble, pqjson.Required)),
		pqjson.NewPrimitive("name", pqjson.KindByteArray, pqjson.Optional),
		pqjson.NewPrimitive("score", pqjson.KindDouble, pqjson.Optional),
		pqjson.NewPrimitive("tags", pqjson.KindByteArray, pqjson.Repeated),
	}
	assert.Equal(t, expected, r.Fields())
}

func TestReaderKinds(t *testing.T) {
	const schema = `message kinds {
  required int32 n;
  optional float f;
  optional int96 ts;
  optional fixed_len_byte_array(2) fb;
  repeated group kv {
    required binary k (STRING);
    optional int32 v;
  }
}`
	b, err := Encode(schema, WriterOpts{},
		map[string]interface{}{
			"n":  int32(-7),
			"f":  float32(1.5),
			"ts": [12]byte(pqjson.NewInt96(0, 2440589)),
			"fb": []byte("hi"),
			"kv": []map[string]interface{}{
				{"k": []byte("a"), "v": int32(1)},
				{"k": []byte("b")},
			},
		},
		map[string]interface{}{"n": int32(2)},
	)
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	expected := `[` +
		`{"n":-7,"f":1.5,"ts":"1970-01-02T00:00:00Z","fb":"hi","kv":[{"k":"a","v":1},{"k":"b","v":null}]},` +
		`{"n":2,"f":null,"ts":null,"fb":null,"kv":[]}` +
		`]`
	assert.Equal(t, expected, project(t, r))
}

func TestReaderRowGroups(t *testing.T) {
	rows := make([]map[string]interface{}, 10)
	for i := range rows {
		rows[i] = map[string]interface{}{"n": int64(i)}
	}
	b, err := Encode("message m { required int64 n; }", WriterOpts{RowGroupSize: 4}, rows...)
	require.NoError(t, err)
	r, err := NewReader(storage.NewByteSource(b))
	require.NoError(t, err)
	out := project(t, r)
	assert.True(t, strings.HasPrefix(out, `[{"n":0},{"n":1}`))
	assert.True(t, strings.HasSuffix(out, `{"n":9}]`))
	assert.EqualValues(t, 10, r.Stats().Rows)
	assert.EqualValues(t, 3, r.Stats().RowGroups)
}

func TestReaderNotParquet(t *testing.T) {
	_, err := NewReader(storage.NewByteSource([]byte("not a parquet file at all")))
	assert.Error(t, err)
	_, err = NewReader(strings.NewReader("x"))
	assert.Error(t, err)
}

func TestWriterBadSchema(t *testing.T) {
	_, err := Encode("message {", WriterOpts{})
	assert.Error(t, err)
	_, err = Encode(SampleSchema, WriterOpts{Codec: "bogus"})
	assert.Error(t, err)
}
