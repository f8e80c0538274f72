package parquetio

import (
	"fmt"

	"github.com/brimdata/pqjson"
	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"
)

func newFields(children []*parquetschema.ColumnDefinition) ([]pqjson.Field, error) {
	fields := make([]pqjson.Field, 0, len(children))
	for _, c := range children {
		f, err := newField(c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.SchemaElement.Name, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func newField(cd *parquetschema.ColumnDefinition) (pqjson.Field, error) {
	se := cd.SchemaElement
	rep := newRepetition(se.RepetitionType)
	if se.Type == nil {
		// LIST and MAP annotations are not interpreted.  Their groups
		// are projected as written.
		children, err := newFields(cd.Children)
		if err != nil {
			return pqjson.Field{}, err
		}
		return pqjson.NewGroup(se.Name, rep, children...), nil
	}
	return pqjson.NewPrimitive(se.Name, newKind(*se.Type), rep), nil
}

func newKind(t parquet.Type) pqjson.Kind {
	switch t {
	case parquet.Type_BOOLEAN:
		return pqjson.KindBool
	case parquet.Type_INT32:
		return pqjson.KindInt32
	case parquet.Type_INT64:
		return pqjson.KindInt64
	case parquet.Type_INT96:
		return pqjson.KindInt96
	case parquet.Type_FLOAT:
		return pqjson.KindFloat
	case parquet.Type_DOUBLE:
		return pqjson.KindDouble
	case parquet.Type_BYTE_ARRAY:
		return pqjson.KindByteArray
	case parquet.Type_FIXED_LEN_BYTE_ARRAY:
		return pqjson.KindFixedLenByteArray
	}
	return pqjson.KindOther
}

func newRepetition(r *parquet.FieldRepetitionType) pqjson.Repetition {
	if r == nil {
		return pqjson.Required
	}
	switch *r {
	case parquet.FieldRepetitionType_OPTIONAL:
		return pqjson.Optional
	case parquet.FieldRepetitionType_REPEATED:
		return pqjson.Repeated
	}
	return pqjson.Required
}
