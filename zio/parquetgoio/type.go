package parquetgoio

import (
	"fmt"

	"github.com/brimdata/pqjson"
	"github.com/parquet-go/parquet-go"
)

func newFields(fields []parquet.Field) ([]pqjson.Field, error) {
	out := make([]pqjson.Field, 0, len(fields))
	for _, f := range fields {
		field, err := newField(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		out = append(out, field)
	}
	return out, nil
}

func newField(f parquet.Field) (pqjson.Field, error) {
	rep := pqjson.Required
	switch {
	case f.Repeated():
		rep = pqjson.Repeated
	case f.Optional():
		rep = pqjson.Optional
	}
	if f.Leaf() {
		return pqjson.NewPrimitive(f.Name(), newKind(f.Type().Kind()), rep), nil
	}
	children, err := newFields(f.Fields())
	if err != nil {
		return pqjson.Field{}, err
	}
	return pqjson.NewGroup(f.Name(), rep, children...), nil
}

func newKind(k parquet.Kind) pqjson.Kind {
	switch k {
	case parquet.Boolean:
		return pqjson.KindBool
	case parquet.Int32:
		return pqjson.KindInt32
	case parquet.Int64:
		return pqjson.KindInt64
	case parquet.Int96:
		return pqjson.KindInt96
	case parquet.Float:
		return pqjson.KindFloat
	case parquet.Double:
		return pqjson.KindDouble
	case parquet.ByteArray:
		return pqjson.KindByteArray
	case parquet.FixedLenByteArray:
		return pqjson.KindFixedLenByteArray
	}
	return pqjson.KindOther
}
