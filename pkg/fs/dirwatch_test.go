package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, events <-chan FileEvent) FileEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return FileEvent{}
}

func TestDirWatcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.parquet"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	w, err := NewDirWatcher(dir, 20*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Events(ctx)

	ev := nextEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, filepath.Join(dir, "existing.parquet"), ev.Name)
	assert.Equal(t, FileOpExisting, ev.Op)

	name := filepath.Join(dir, "new.parquet")
	f, err := os.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte("PAR1"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ev = nextEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, name, ev.Name)
	assert.Equal(t, FileOpCreated, ev.Op)

	cancel()
	for range events {
	}
}

// A file still being written when the watcher starts is reported only
// after it goes quiet, and still as existing.
func TestDirWatcherExistingSettles(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "growing.parquet")
	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()

	const settle = 200 * time.Millisecond
	w, err := NewDirWatcher(dir, settle)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Events(ctx)

	var last time.Time
	for i := 0; i < 6; i++ {
		select {
		case ev := <-events:
			t.Fatalf("early event %+v", ev)
		case <-time.After(50 * time.Millisecond):
		}
		_, err := f.Write([]byte("PAR1"))
		require.NoError(t, err)
		last = time.Now()
	}
	ev := nextEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, name, ev.Name)
	assert.Equal(t, FileOpExisting, ev.Op)
	assert.GreaterOrEqual(t, time.Since(last), settle)

	select {
	case ev := <-events:
		t.Fatalf("duplicate event %+v", ev)
	case <-time.After(2 * settle):
	}
}

func TestDirWatcherNotDir(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(name, nil, 0644))
	_, err := NewDirWatcher(name, time.Millisecond)
	assert.Error(t, err)
}
