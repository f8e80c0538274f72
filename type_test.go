package pqjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFields = []Field{
	NewPrimitive("n", KindInt32, Required),
	NewGroup("g", Repeated,
		NewPrimitive("s", KindByteArray, Optional),
	),
}

func TestString(t *testing.T) {
	assert.Equal(t, "required int32 n; repeated group g { optional binary s; }", String(testFields))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(testFields))
	assert.EqualError(t, Validate([]Field{NewPrimitive("", KindBool, Required)}), "field with empty name")
	assert.EqualError(t, Validate([]Field{
		NewPrimitive("a", KindBool, Required),
		NewPrimitive("a", KindInt64, Optional),
	}), `duplicate field "a"`)
	assert.EqualError(t, Validate([]Field{
		NewGroup("g", Optional, NewPrimitive("x", KindBool, Required), NewPrimitive("x", KindBool, Required)),
	}), `g: duplicate field "x"`)
	bad := NewPrimitive("p", KindInt64, Required)
	bad.Fields = []Field{NewPrimitive("c", KindBool, Required)}
	assert.EqualError(t, Validate([]Field{bad}), "p: int64 field has children")
}

func TestFieldJSON(t *testing.T) {
	b, err := json.Marshal(testFields)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"n","kind":"int32","repetition":"required"},
		{"name":"g","kind":"group","repetition":"repeated","fields":[
			{"name":"s","kind":"binary","repetition":"optional"}
		]}
	]`, string(b))
	var fields []Field
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, testFields, fields)
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"int128"}`), &Field{}))
}

func TestLookup(t *testing.T) {
	assert.Equal(t, 1, Lookup(testFields, "g"))
	assert.Equal(t, -1, Lookup(testFields, "nope"))
}

func TestMapRecord(t *testing.T) {
	rec, err := NewMapRecord(testFields, map[string]interface{}{
		"n": int64(7),
		"g": []interface{}{
			map[string]interface{}{"s": "x"},
			map[string]interface{}{},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.RepetitionCount(0))
	assert.Equal(t, int32(7), rec.Int32(0, 0))
	require.Equal(t, 2, rec.RepetitionCount(1))
	assert.Equal(t, []byte("x"), rec.Group(1, 0).Binary(0, 0))
	assert.Equal(t, 0, rec.Group(1, 1).RepetitionCount(0))

	_, err = NewMapRecord(testFields, map[string]interface{}{"n": "seven"})
	assert.EqualError(t, err, "n: cannot use string as int32 value")
	_, err = NewMapRecord(testFields, map[string]interface{}{"g": 3})
	assert.EqualError(t, err, "g: repeated field holds int, not a list")
}

func TestInt96(t *testing.T) {
	// Julian day 2440588 is 1970-01-01.
	i := NewInt96(1_500_000_000, 2440588)
	assert.Equal(t, "1970-01-01T00:00:01.5Z", i.String())
}
