// Package display redraws a few lines of status text in place on a
// terminal.
package display

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

type Displayer interface {
	// Display writes the current status to w and returns false when
	// there is nothing more to show.
	Display(w io.Writer) bool
}

type Display struct {
	live     *uilive.Writer
	interval time.Duration
	updater  Displayer
	buffer   bytes.Buffer
	close    chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

func New(updater Displayer, interval time.Duration, w io.Writer) *Display {
	live := uilive.New()
	live.Out = w
	d := &Display{
		live:     live,
		interval: interval,
		updater:  updater,
		close:    make(chan struct{}),
	}
	d.done.Add(1)
	return d
}

func (d *Display) update() bool {
	d.buffer.Reset()
	cont := d.updater.Display(&d.buffer)
	// Ignore any errors.
	_, _ = io.Copy(d.live, &d.buffer)
	_ = d.live.Flush()
	return cont
}

// Run updates the display every interval until Close is called or the
// Displayer reports it is done.  Run must be called exactly once.
func (d *Display) Run() {
	defer d.done.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for d.update() {
		select {
		case <-d.close:
			return
		case <-ticker.C:
		}
	}
}

// Bypass returns a writer whose output appears above the live lines.
func (d *Display) Bypass() io.Writer {
	return d.live.Bypass()
}

// Close stops Run and draws the final status.
func (d *Display) Close() {
	d.once.Do(func() { close(d.close) })
	d.done.Wait()
	d.update()
}
