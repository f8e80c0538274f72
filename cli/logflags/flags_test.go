package logflags

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/brimdata/pqjson/service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func parse(t *testing.T, args ...string) (*Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.Init()
}

func TestDefaults(t *testing.T) {
	f, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, logger.Config{Path: "stderr", Mode: logger.FileModeAppend, Level: zap.InfoLevel}, f.Config)
}

func TestFileModeNeedsFile(t *testing.T) {
	_, err := parse(t, "-log.filemode", "rotate")
	assert.EqualError(t, err, "-log.filemode requires -log.path to name a file")

	path := filepath.Join(t.TempDir(), "pq2json.log")
	f, err := parse(t, "-log.path", path, "-log.filemode", "truncate", "-log.level", "debug")
	require.NoError(t, err)
	l, err := f.Open()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
	l.Sync()
}
