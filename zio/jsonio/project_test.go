package jsonio

import (
	"math"
	"testing"

	"github.com/brimdata/pqjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T, fields []pqjson.Field, row map[string]interface{}, opts WriterOpts) (string, error) {
	t.Helper()
	rec, err := pqjson.NewMapRecord(fields, row)
	require.NoError(t, err)
	b, err := AppendRecord(nil, rec, fields, opts)
	return string(b), err
}

func TestProjectShapes(t *testing.T) {
	cases := []struct {
		name     string
		fields   []pqjson.Field
		row      map[string]interface{}
		expected string
	}{
		{
			name: "required and empty repeated",
			fields: []pqjson.Field{
				pqjson.NewPrimitive("n", pqjson.KindInt32, pqjson.Required),
				pqjson.NewPrimitive("tags", pqjson.KindByteArray, pqjson.Repeated),
			},
			row:      map[string]interface{}{"n": int32(42)},
			expected: `{"n":42,"tags":[]}`,
		},
		{
			name: "optional absent and present",
			fields: []pqjson.Field{
				pqjson.NewPrimitive("a", pqjson.KindBool, pqjson.Optional),
				pqjson.NewPrimitive("b", pqjson.KindBool, pqjson.Optional),
			},
			row:      map[string]interface{}{"b": true},
			expected: `{"a":null,"b":true}`,
		},
		{
			name: "nested group",
			fields: []pqjson.Field{
				pqjson.NewGroup("inner", pqjson.Required,
					pqjson.NewPrimitive("s", pqjson.KindByteArray, pqjson.Required)),
			},
			row: map[string]interface{}{
				"inner": map[string]interface{}{"s": []byte("hello")},
			},
			expected: `{"inner":{"s":"hello"}}`,
		},
		{
			name: "repeated values keep order",
			fields: []pqjson.Field{
				pqjson.NewPrimitive("xs", pqjson.KindInt64, pqjson.Repeated),
			},
			row:      map[string]interface{}{"xs": []int64{3, 1, 2}},
			expected: `{"xs":[3,1,2]}`,
		},
		{
			name: "repeated groups",
			fields: []pqjson.Field{
				pqjson.NewGroup("kv", pqjson.Repeated,
					pqjson.NewPrimitive("k", pqjson.KindByteArray, pqjson.Required),
					pqjson.NewPrimitive("v", pqjson.KindDouble, pqjson.Optional)),
			},
			row: map[string]interface{}{
				"kv": []map[string]interface{}{
					{"k": []byte("a"), "v": 1.5},
					{"k": []byte("b")},
				},
			},
			expected: `{"kv":[{"k":"a","v":1.5},{"k":"b","v":null}]}`,
		},
		{
			name: "schema order not row order",
			fields: []pqjson.Field{
				pqjson.NewPrimitive("z", pqjson.KindInt32, pqjson.Required),
				pqjson.NewPrimitive("a", pqjson.KindInt32, pqjson.Required),
			},
			row:      map[string]interface{}{"a": int32(1), "z": int32(2)},
			expected: `{"z":2,"a":1}`,
		},
		{
			name: "escaped names and values",
			fields: []pqjson.Field{
				pqjson.NewPrimitive(`we"ird`, pqjson.KindByteArray, pqjson.Required),
			},
			row:      map[string]interface{}{`we"ird`: []byte("line\nbreak")},
			expected: `{"we\"ird":"line\nbreak"}`,
		},
		{
			name: "int96 as time",
			fields: []pqjson.Field{
				pqjson.NewPrimitive("ts", pqjson.KindInt96, pqjson.Required),
			},
			// Julian day 2440588 is 1970-01-01.
			row:      map[string]interface{}{"ts": pqjson.NewInt96(1500, 2440588)},
			expected: `{"ts":"1970-01-01T00:00:00.0000015Z"}`,
		},
		{
			name: "other kind uses its string form",
			fields: []pqjson.Field{
				pqjson.NewPrimitive("o", pqjson.KindOther, pqjson.Required),
			},
			row:      map[string]interface{}{"o": "2023-04-01"},
			expected: `{"o":"2023-04-01"}`,
		},
		{
			name:     "empty schema",
			expected: `{}`,
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			out, err := project(t, c.fields, c.row, WriterOpts{})
			require.NoError(t, err)
			assert.Equal(t, c.expected, out)
		})
	}
}

func TestProjectNumbers(t *testing.T) {
	fields := []pqjson.Field{
		pqjson.NewPrimitive("i32", pqjson.KindInt32, pqjson.Required),
		pqjson.NewPrimitive("i64", pqjson.KindInt64, pqjson.Required),
		pqjson.NewPrimitive("f", pqjson.KindFloat, pqjson.Required),
		pqjson.NewPrimitive("d", pqjson.KindDouble, pqjson.Required),
	}
	cases := []struct {
		row      map[string]interface{}
		expected string
	}{
		{
			row:      map[string]interface{}{"i32": int32(math.MinInt32), "i64": int64(math.MaxInt64), "f": float32(0.1), "d": 0.1},
			expected: `{"i32":-2147483648,"i64":9223372036854775807,"f":0.1,"d":0.1}`,
		},
		{
			row:      map[string]interface{}{"i32": int32(0), "i64": int64(-1), "f": float32(1e-7), "d": 1e21},
			expected: `{"i32":0,"i64":-1,"f":1e-7,"d":1e+21}`,
		},
		{
			row:      map[string]interface{}{"i32": int32(7), "i64": int64(7), "f": float32(3), "d": -2.5e-9},
			expected: `{"i32":7,"i64":7,"f":3,"d":-2.5e-9}`,
		},
	}
	for _, c := range cases {
		out, err := project(t, fields, c.row, WriterOpts{})
		require.NoError(t, err)
		assert.Equal(t, c.expected, out)
	}
}

func TestProjectNonFinite(t *testing.T) {
	fields := []pqjson.Field{
		pqjson.NewPrimitive("x", pqjson.KindDouble, pqjson.Repeated),
	}
	row := map[string]interface{}{"x": []float64{math.NaN(), math.Inf(1), math.Inf(-1)}}
	cases := []struct {
		policy   NonFinite
		expected string
	}{
		{"", `{"x":[NaN,Infinity,-Infinity]}`},
		{NonFiniteLiteral, `{"x":[NaN,Infinity,-Infinity]}`},
		{NonFiniteNull, `{"x":[null,null,null]}`},
		{NonFiniteString, `{"x":["NaN","Infinity","-Infinity"]}`},
	}
	for _, c := range cases {
		out, err := project(t, fields, row, WriterOpts{NonFinite: c.policy})
		require.NoError(t, err)
		assert.Equal(t, c.expected, out, "policy %q", c.policy)
	}
	_, err := project(t, fields, row, WriterOpts{NonFinite: NonFiniteError})
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.ErrorContains(t, err, "x: ")
}

func TestProjectRequiredMissing(t *testing.T) {
	fields := []pqjson.Field{
		pqjson.NewGroup("g", pqjson.Required,
			pqjson.NewPrimitive("r", pqjson.KindInt32, pqjson.Required)),
	}
	row := map[string]interface{}{"g": map[string]interface{}{}}
	out, err := project(t, fields, row, WriterOpts{})
	require.NoError(t, err)
	assert.Equal(t, `{"g":{"r":null}}`, out)

	_, err = project(t, fields, row, WriterOpts{Strict: true})
	assert.ErrorIs(t, err, ErrRequiredMissing)
	assert.EqualError(t, err, "g: r: required field has no value")
}

func TestNonFiniteSet(t *testing.T) {
	var n NonFinite
	require.NoError(t, n.Set("null"))
	assert.Equal(t, NonFiniteNull, n)
	require.NoError(t, n.Set(""))
	assert.Equal(t, NonFiniteLiteral, n)
	assert.Error(t, n.Set("bogus"))
	assert.Equal(t, "literal", NonFinite("").String())
}
