package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalJSONFile atomically writes the indented JSON encoding of v to
// filename, creating it with permissions perm.
func MarshalJSONFile(v interface{}, filename string, perm os.FileMode) error {
	return ReplaceFile(filename, perm, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// UnmarshalJSONFile parses JSON-encoded data from the file named by filename
// and stores the result in the value pointed to by v.
func UnmarshalJSONFile(filename string, v interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: unmarshaling error: %w", filename, err)
	}
	return nil
}
