package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBytes(t *testing.T) {
	var b Bytes
	require.NoError(t, b.Set("4GiB"))
	assert.EqualValues(t, 4<<30, b)
	assert.Equal(t, "4GiB", b.String())
	require.NoError(t, b.Set("10MB"))
	assert.EqualValues(t, 10_000_000, b)
	assert.Error(t, b.Set("lots"))
}

func TestBytesYAML(t *testing.T) {
	var conf struct {
		Max Bytes `yaml:"max"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("max: 512KiB\n"), &conf))
	assert.EqualValues(t, 512<<10, conf.Max)
}

func TestAbbrev(t *testing.T) {
	assert.Equal(t, "1.5 MiB", Bytes(3<<19).Abbrev())
	assert.Equal(t, "12 B", Bytes(12).Abbrev())
}
