package pqjson

import (
	"encoding/binary"
	"time"

	goparquet "github.com/fraugster/parquet-go"
)

// Record is one decoded row (or one nested group value of a row) as seen
// through its schema.  Field indexes refer to the position of a field in
// the schema that produced the record and rep ranges over
// [0, RepetitionCount(field)).
//
// Accessors never fail.  Decoders check each row against its schema when
// building the Record and report any mismatch as a decode error, so an
// accessor is only ever called with the kind the schema declares.
type Record interface {
	RepetitionCount(field int) int
	Bool(field, rep int) bool
	Int32(field, rep int) int32
	Int64(field, rep int) int64
	Int96(field, rep int) Int96
	Float(field, rep int) float32
	Double(field, rep int) float64
	Binary(field, rep int) []byte
	Group(field, rep int) Record
	// ValueString returns a human-readable form of a KindOther value.
	ValueString(field, rep int) string
}

// Int96 is the legacy 96-bit Parquet timestamp: eight little-endian bytes
// of nanoseconds within the day followed by four little-endian bytes of
// Julian day number.
type Int96 [12]byte

func NewInt96(nanos uint64, julianDay uint32) Int96 {
	var i Int96
	binary.LittleEndian.PutUint64(i[:8], nanos)
	binary.LittleEndian.PutUint32(i[8:], julianDay)
	return i
}

func (i Int96) Time() time.Time {
	return goparquet.Int96ToTime(i).UTC()
}

func (i Int96) String() string {
	return i.Time().Format(time.RFC3339Nano)
}
