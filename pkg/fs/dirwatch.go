package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type FileOp int

const (
	FileOpCreated FileOp = iota
	FileOpExisting
)

func (o FileOp) String() string {
	if o == FileOpExisting {
		return "existing"
	}
	return "created"
}

type FileEvent struct {
	Name string
	Op   FileOp
	Err  error
}

// DirWatcher observes a directory and emits an event for each regular file
// that appears in it.  When started it also reports every existing file.
// A file, new or existing, is reported once it has seen no create or write
// activity for the settle duration, so writers have time to finish.  Files
// whose names begin with a dot are ignored.
type DirWatcher struct {
	dir     string
	settle  time.Duration
	events  chan FileEvent
	once    sync.Once
	watcher *fsnotify.Watcher
}

func NewDirWatcher(dir string, settle time.Duration) (*DirWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("provided path must be a directory")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DirWatcher{
		dir:     dir,
		settle:  settle,
		events:  make(chan FileEvent, 5),
		watcher: watcher,
	}, nil
}

// Events starts the watcher on first call and returns its event channel,
// which is closed when ctx is done or the watcher is stopped.
func (w *DirWatcher) Events(ctx context.Context) <-chan FileEvent {
	w.once.Do(func() { go w.start(ctx) })
	return w.events
}

func (w *DirWatcher) Stop() error {
	return w.watcher.Close()
}

type pending struct {
	name  string
	op    FileOp
	timer *time.Timer
}

func (w *DirWatcher) start(ctx context.Context) {
	defer close(w.events)
	defer w.watcher.Close()
	if err := w.watcher.Add(w.dir); err != nil {
		w.emit(ctx, FileEvent{Err: err})
		return
	}
	ready := make(chan *pending)
	pendings := make(map[string]*pending)
	defer func() {
		for _, p := range pendings {
			p.timer.Stop()
		}
	}()
	// schedule (re)starts the settle timer for name.  A file first seen
	// in the listing stays FileOpExisting while writes keep arriving.
	schedule := func(name string, op FileOp) {
		if p, ok := pendings[name]; ok {
			p.timer.Stop()
			op = p.op
		}
		p := &pending{name: name, op: op}
		p.timer = time.AfterFunc(w.settle, func() {
			select {
			case ready <- p:
			case <-ctx.Done():
			}
		})
		pendings[name] = p
	}
	existing, err := w.listExisting()
	if err != nil {
		w.emit(ctx, FileEvent{Err: err})
		return
	}
	for _, name := range existing {
		schedule(name, FileOpExisting)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if hidden(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				if p, ok := pendings[ev.Name]; ok {
					p.timer.Stop()
					delete(pendings, ev.Name)
				}
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			schedule(ev.Name, FileOpCreated)
		case p := <-ready:
			// A timer stopped after it fired may still deliver.
			if pendings[p.name] != p {
				continue
			}
			delete(pendings, p.name)
			if info, err := os.Stat(p.name); err != nil || !info.Mode().IsRegular() {
				continue
			}
			if !w.emit(ctx, FileEvent{Name: p.name, Op: p.op}) {
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.emit(ctx, FileEvent{Err: err}) {
				return
			}
		}
	}
}

func (w *DirWatcher) emit(ctx context.Context, ev FileEvent) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *DirWatcher) listExisting() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || hidden(e.Name()) {
			continue
		}
		names = append(names, filepath.Join(w.dir, e.Name()))
	}
	return names, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}
