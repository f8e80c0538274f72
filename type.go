// Package pqjson defines the schema and record model shared by the Parquet
// decoders in zio and the JSON projector in zio/jsonio.  A schema is an
// ordered list of Fields, each carrying a physical Kind and a Repetition.
// Groups carry their own ordered sub-fields.  Decoded rows are exposed as
// Records, which provide indexed, repetition-aware access to field values.
package pqjson

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindOther Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindInt96
	KindFloat
	KindDouble
	KindByteArray
	KindFixedLenByteArray
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindInt96:
		return "int96"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByteArray:
		return "binary"
	case KindFixedLenByteArray:
		return "fixed_len_byte_array"
	case KindGroup:
		return "group"
	}
	return "other"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for c := KindOther; c <= KindGroup; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}

// IsPrimitive returns true for every kind but KindGroup.
func (k Kind) IsPrimitive() bool {
	return k != KindGroup
}

type Repetition int

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	}
	return fmt.Sprintf("repetition(%d)", int(r))
}

func (r Repetition) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Repetition) UnmarshalText(text []byte) error {
	for _, c := range []Repetition{Required, Optional, Repeated} {
		if c.String() == string(text) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("unknown repetition %q", text)
}

// Field describes one column of a schema.  Fields is non-nil only for
// group fields and holds the group's children in declared order.
type Field struct {
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	Repetition Repetition `json:"repetition"`
	Fields     []Field    `json:"fields,omitempty"`
}

func NewPrimitive(name string, kind Kind, rep Repetition) Field {
	return Field{Name: name, Kind: kind, Repetition: rep}
}

func NewGroup(name string, rep Repetition, fields ...Field) Field {
	return Field{Name: name, Kind: KindGroup, Repetition: rep, Fields: fields}
}

func (f Field) IsGroup() bool {
	return f.Kind == KindGroup
}

// Lookup returns the index of the field named name in fields or -1.
func Lookup(fields []Field, name string) int {
	for i := range fields {
		if fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that names are non-empty and unique within each group
// and that only group fields have children.
func Validate(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field with empty name")
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.IsGroup() {
			if err := Validate(f.Fields); err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
		} else if len(f.Fields) != 0 {
			return fmt.Errorf("%s: %s field has children", f.Name, f.Kind)
		}
	}
	return nil
}

// String formats fields in the Parquet message syntax, e.g.,
// "required int32 n; repeated group g { optional binary s; }".
func String(fields []Field) string {
	var b strings.Builder
	formatFields(&b, fields)
	return b.String()
}

func formatFields(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Repetition.String())
		b.WriteByte(' ')
		b.WriteString(f.Kind.String())
		b.WriteByte(' ')
		b.WriteString(f.Name)
		if f.IsGroup() {
			b.WriteString(" { ")
			formatFields(b, f.Fields)
			b.WriteString(" }")
		} else {
			b.WriteByte(';')
		}
	}
}
