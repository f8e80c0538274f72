package arrowio

import (
	"fmt"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/schema"
	"github.com/brimdata/pqjson"
)

// step is one node on the path from the schema root to a leaf column.
type step struct {
	// field is the index of the node within its enclosing group.
	field    int
	repeated bool
	// def is the definition level at which the node is present and rep
	// the repetition level of its elements when it is repeated.
	def int16
	rep int16
	// width is the number of fields of a group node.
	width int
}

// newFields converts the Parquet schema rooted at root as written, without
// interpreting LIST or MAP annotations, and returns the path to each leaf
// column in column order.
func newFields(root *schema.GroupNode) ([]pqjson.Field, [][]step, error) {
	var paths [][]step
	fields, err := walk(root, nil, 0, 0, &paths)
	return fields, paths, err
}

func walk(g *schema.GroupNode, path []step, def, rep int16, paths *[][]step) ([]pqjson.Field, error) {
	fields := make([]pqjson.Field, 0, g.NumFields())
	for i := 0; i < g.NumFields(); i++ {
		n := g.Field(i)
		s := step{field: i, def: def, rep: rep}
		repetition := pqjson.Required
		switch n.RepetitionType() {
		case parquet.Repetitions.Optional:
			s.def++
			repetition = pqjson.Optional
		case parquet.Repetitions.Repeated:
			s.def++
			s.rep++
			s.repeated = true
			repetition = pqjson.Repeated
		}
		switch n := n.(type) {
		case *schema.GroupNode:
			s.width = n.NumFields()
			children, err := walk(n, append(path[:len(path):len(path)], s), s.def, s.rep, paths)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n.Name(), err)
			}
			fields = append(fields, pqjson.NewGroup(n.Name(), repetition, children...))
		case *schema.PrimitiveNode:
			*paths = append(*paths, append(path[:len(path):len(path)], s))
			fields = append(fields, pqjson.NewPrimitive(n.Name(), newKind(n.PhysicalType()), repetition))
		default:
			return nil, fmt.Errorf("%s: unknown schema node %T", n.Name(), n)
		}
	}
	return fields, nil
}

func newKind(t parquet.Type) pqjson.Kind {
	switch t {
	case parquet.Types.Boolean:
		return pqjson.KindBool
	case parquet.Types.Int32:
		return pqjson.KindInt32
	case parquet.Types.Int64:
		return pqjson.KindInt64
	case parquet.Types.Int96:
		return pqjson.KindInt96
	case parquet.Types.Float:
		return pqjson.KindFloat
	case parquet.Types.Double:
		return pqjson.KindDouble
	case parquet.Types.ByteArray:
		return pqjson.KindByteArray
	case parquet.Types.FixedLenByteArray:
		return pqjson.KindFixedLenByteArray
	}
	return pqjson.KindOther
}
