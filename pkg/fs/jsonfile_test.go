package fs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFile(t *testing.T) {
	type attrs struct {
		MimeType string `json:"mime.type"`
		Rows     int64  `json:"rows"`
	}
	name := filepath.Join(t.TempDir(), "attrs.json")
	in := attrs{MimeType: "application/json", Rows: 3}
	require.NoError(t, MarshalJSONFile(in, name, 0644))
	var out attrs
	require.NoError(t, UnmarshalJSONFile(name, &out))
	assert.Equal(t, in, out)
	assert.Error(t, UnmarshalJSONFile(filepath.Join(t.TempDir(), "missing"), &out))
}
