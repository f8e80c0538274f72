package parquetio

// SampleSchema is the schema of the file returned by EncodeSample.
const SampleSchema = `message sample {
  optional boolean active;
  required int64 id;
  optional group loc {
    required double lat;
    required double lon;
  }
  optional binary name (STRING);
  optional double score;
  repeated binary tags (STRING);
}`

// SampleRows returns the rows encoded by EncodeSample.
func SampleRows() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"active": true,
			"id":     int64(1),
			"loc":    map[string]interface{}{"lat": 52.5, "lon": 13.25},
			"name":   []byte("ada"),
			"score":  0.5,
			"tags":   [][]byte{[]byte("x"), []byte("y")},
		},
		{
			"id":   int64(2),
			"name": []byte(`bob "quoted"`),
		},
		{
			"active": false,
			"id":     int64(3),
			"score":  1e-7,
			"tags":   [][]byte{[]byte("z")},
		},
	}
}

// EncodeSample returns a small Parquet file for trying out conversions.
func EncodeSample(opts WriterOpts) ([]byte, error) {
	return Encode(SampleSchema, opts, SampleRows()...)
}

// NestedSchema has LIST and MAP annotated groups in the standard
// three-level layout.
const NestedSchema = `message nested {
  optional group xs (LIST) {
    repeated group list {
      optional int32 element;
    }
  }
  optional group m (MAP) {
    repeated group key_value {
      required binary key (STRING);
      optional int32 value;
    }
  }
}`

// NestedRows returns rows for NestedSchema.  The second row has neither
// list nor map.
func NestedRows() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"xs": map[string]interface{}{
				"list": []map[string]interface{}{
					{"element": int32(1)},
					{"element": int32(2)},
				},
			},
			"m": map[string]interface{}{
				"key_value": []map[string]interface{}{
					{"key": []byte("a"), "value": int32(7)},
				},
			},
		},
		{},
		{
			"xs": map[string]interface{}{
				"list": []map[string]interface{}{
					{"element": int32(3)},
				},
			},
			"m": map[string]interface{}{
				"key_value": []map[string]interface{}{
					{"key": []byte("b")},
					{"key": []byte("c"), "value": int32(9)},
				},
			},
		},
	}
}
