package pqjson

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// NewMapRecord builds a Record from a row decoded into nested Go maps, as
// produced by map-oriented Parquet readers: groups are map[string]any,
// repeated fields are slices, and absent or nil entries have no values.
// Leaf values are converted to the representation of their field's kind
// here, so a row that does not fit its schema is rejected up front.
func NewMapRecord(fields []Field, row map[string]interface{}) (Record, error) {
	r := &mapRecord{
		slots: make([][]interface{}, len(fields)),
	}
	for i, f := range fields {
		v, ok := row[f.Name]
		if !ok || v == nil {
			continue
		}
		var err error
		if f.Repetition == Repeated {
			r.slots[i], err = convertRepeated(f, v)
		} else {
			var val interface{}
			val, err = convertValue(f, v)
			r.slots[i] = []interface{}{val}
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return r, nil
}

type mapRecord struct {
	slots [][]interface{}
}

var _ Record = (*mapRecord)(nil)

func (r *mapRecord) RepetitionCount(field int) int {
	return len(r.slots[field])
}

func (r *mapRecord) Bool(field, rep int) bool {
	return r.slots[field][rep].(bool)
}

func (r *mapRecord) Int32(field, rep int) int32 {
	return r.slots[field][rep].(int32)
}

func (r *mapRecord) Int64(field, rep int) int64 {
	return r.slots[field][rep].(int64)
}

func (r *mapRecord) Int96(field, rep int) Int96 {
	return r.slots[field][rep].(Int96)
}

func (r *mapRecord) Float(field, rep int) float32 {
	return r.slots[field][rep].(float32)
}

func (r *mapRecord) Double(field, rep int) float64 {
	return r.slots[field][rep].(float64)
}

func (r *mapRecord) Binary(field, rep int) []byte {
	return r.slots[field][rep].([]byte)
}

func (r *mapRecord) Group(field, rep int) Record {
	return r.slots[field][rep].(*mapRecord)
}

func (r *mapRecord) ValueString(field, rep int) string {
	switch v := r.slots[field][rep].(type) {
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func convertRepeated(f Field, v interface{}) ([]interface{}, error) {
	if b, ok := v.([]byte); ok && isBinary(f.Kind) {
		// A lone byte array where a list was expected.
		return []interface{}{b}, nil
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, fmt.Errorf("repeated field holds %T, not a list", v)
	}
	n := rv.Len()
	if n == 0 {
		return nil, nil
	}
	vals := make([]interface{}, n)
	for k := 0; k < n; k++ {
		elem := rv.Index(k).Interface()
		if elem == nil {
			return nil, fmt.Errorf("null element %d in repeated field", k)
		}
		val, err := convertValue(f, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", k, err)
		}
		vals[k] = val
	}
	return vals, nil
}

func convertValue(f Field, v interface{}) (interface{}, error) {
	switch f.Kind {
	case KindGroup:
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, mismatch(f, v)
		}
		return NewMapRecord(f.Fields, m)
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt32:
		if n, ok := toInt64(v); ok && n >= math.MinInt32 && n <= math.MaxUint32 {
			// Unsigned 32-bit values arrive widened; keep their bits.
			return int32(n), nil
		}
	case KindInt64:
		if n, ok := toInt64(v); ok {
			return n, nil
		}
	case KindFloat:
		switch v := v.(type) {
		case float32:
			return v, nil
		case float64:
			return float32(v), nil
		}
	case KindDouble:
		switch v := v.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		}
	case KindInt96:
		if i, ok := toInt96(v); ok {
			return i, nil
		}
	case KindByteArray, KindFixedLenByteArray:
		if b, ok := toBytes(v); ok {
			return b, nil
		}
	case KindOther:
		return v, nil
	}
	return nil, mismatch(f, v)
}

func mismatch(f Field, v interface{}) error {
	return fmt.Errorf("cannot use %T as %s value", v, f.Kind)
}

func isBinary(k Kind) bool {
	return k == KindByteArray || k == KindFixedLenByteArray
}

func toInt64(v interface{}) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(rv.Uint()), true
	}
	return 0, false
}

func toBytes(v interface{}) ([]byte, bool) {
	switch v := v.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return b, true
	}
	return nil, false
}

func toInt96(v interface{}) (Int96, bool) {
	switch v := v.(type) {
	case Int96:
		return v, true
	case [12]byte:
		return v, true
	case []byte:
		if len(v) == 12 {
			var i Int96
			copy(i[:], v)
			return i, true
		}
		return Int96{}, false
	}
	// Three little-endian 32-bit words, as some readers represent INT96.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Len() == 3 && rv.Type().Elem().Kind() == reflect.Uint32 {
		var i Int96
		for k := 0; k < 3; k++ {
			binary.LittleEndian.PutUint32(i[4*k:], uint32(rv.Index(k).Uint()))
		}
		return i, true
	}
	return Int96{}, false
}
