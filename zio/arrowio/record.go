package arrowio

import (
	"fmt"

	"github.com/brimdata/pqjson"
)

// group is a row, or one instance of a group field, assembled from the
// column entries that define it.  Each slot holds the field's values in
// repetition order.
type group struct {
	slots [][]interface{}
}

var _ pqjson.Record = (*group)(nil)

func newGroup(width int) *group {
	return &group{slots: make([][]interface{}, width)}
}

func (g *group) RepetitionCount(field int) int {
	return len(g.slots[field])
}

func (g *group) Bool(field, rep int) bool {
	return g.slots[field][rep].(bool)
}

func (g *group) Int32(field, rep int) int32 {
	return g.slots[field][rep].(int32)
}

func (g *group) Int64(field, rep int) int64 {
	return g.slots[field][rep].(int64)
}

func (g *group) Int96(field, rep int) pqjson.Int96 {
	return g.slots[field][rep].(pqjson.Int96)
}

func (g *group) Float(field, rep int) float32 {
	return g.slots[field][rep].(float32)
}

func (g *group) Double(field, rep int) float64 {
	return g.slots[field][rep].(float64)
}

func (g *group) Binary(field, rep int) []byte {
	return g.slots[field][rep].([]byte)
}

func (g *group) Group(field, rep int) pqjson.Record {
	return g.slots[field][rep].(*group)
}

func (g *group) ValueString(field, rep int) string {
	return fmt.Sprint(g.slots[field][rep])
}
