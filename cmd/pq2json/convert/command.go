package convert

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brimdata/pqjson/cli/clierrors"
	"github.com/brimdata/pqjson/cli/inputflags"
	"github.com/brimdata/pqjson/cli/outputflags"
	"github.com/brimdata/pqjson/cli/procflags"
	"github.com/brimdata/pqjson/cmd/pq2json/root"
	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/charm"
	"github.com/brimdata/pqjson/pkg/display"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/pkg/units"
	"github.com/paulbellamy/ratecounter"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var Cmd = &charm.Spec{
	Name:  "convert",
	Usage: "convert [options] file|S3-object|URL|- ...",
	Short: "convert Parquet files to JSON",
	Long: `
The convert command reads each Parquet input in full and writes its rows
as JSON.  By default the output is a JSON array written to standard output.
With -ndjson, each row is written as an object on its own line, and several
inputs may then share one output.  With -d, each input is written to its
own file in the given directory, named after the input, and up to -P inputs
are converted at once.

Inputs compressed with gzip, LZ4, or Zstandard are decompressed.  Inputs
may be local paths, "-" for standard input, http(s) URLs, or s3:// URIs.
A failed input leaves no output behind and does not stop the others.`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags  inputflags.Flags
	outputFlags outputflags.Flags
	procFlags   procflags.Flags
	quiet       bool

	// status output
	ctx       context.Context
	rate      *ratecounter.RateCounter
	statsers  []*inputflags.StatsReader
	totalRead int64
	rows      int64
	completed int64
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	c.procFlags.SetFlags(f)
	f.BoolVar(&c.quiet, "q", false, "don't display progress")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags, &c.outputFlags, &c.procFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return errors.New("pq2json convert: at least one input must be specified (- for stdin)")
	}
	if err := c.outputFlags.CheckInputs(len(args)); err != nil {
		return err
	}
	engine := c.Engine()
	c.statsers = c.inputFlags.NewStatsReaders(ctx, engine, args)
	conf := convert.Config{
		Decoder:      c.inputFlags.Decoder,
		JSON:         c.outputFlags.Options(),
		MaxInputSize: c.inputFlags.MaxInput(),
	}
	var d *display.Display
	if !c.quiet && c.outputFlags.PerInput() && term.IsTerminal(int(os.Stderr.Fd())) {
		c.ctx = ctx
		c.rate = ratecounter.NewRateCounter(time.Second)
		d = display.New(c, time.Second/2, os.Stderr)
		go d.Run()
	}
	if c.outputFlags.PerInput() {
		err = c.convertEach(ctx, engine, conf)
	} else {
		err = c.convertAll(ctx, engine, conf)
	}
	if d != nil {
		d.Close()
	}
	return clierrors.Format(err)
}

// convertEach converts each input to its own output, several at a time.
func (c *Command) convertEach(ctx context.Context, engine storage.Engine, conf convert.Config) error {
	var mu sync.Mutex
	var errs error
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.procFlags.Parallel)
	for _, s := range c.statsers {
		s := s
		group.Go(func() error {
			if err := c.convertOne(ctx, engine, conf, s); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.Path, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return errs
}

func (c *Command) convertOne(ctx context.Context, engine storage.Engine, conf convert.Config, s *inputflags.StatsReader) error {
	input, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}
	w, err := c.outputFlags.Open(ctx, engine, c.outputFlags.Path(s.Path))
	if err != nil {
		return err
	}
	stats, err := convert.Convert(ctx, input, w, conf)
	if err != nil {
		storage.Abort(w)
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	atomic.AddInt64(&c.rows, stats.Rows)
	atomic.AddInt64(&c.completed, 1)
	return nil
}

// convertAll writes every input, in order, to the one output.
func (c *Command) convertAll(ctx context.Context, engine storage.Engine, conf convert.Config) error {
	path := c.outputFlags.Path("")
	w, err := c.outputFlags.Open(ctx, engine, path)
	if err != nil {
		return err
	}
	for _, s := range c.statsers {
		input, err := s.ReadAll(ctx)
		if err == nil {
			_, err = convert.Convert(ctx, input, w, conf)
		}
		if err != nil {
			storage.Abort(w)
			return fmt.Errorf("%s: %w", s.Path, err)
		}
	}
	return w.Close()
}

// (1/4) 1.2 GiB/4.0 GiB 310 MiB/s 30.00% 1200000 rows

func (c *Command) Display(w io.Writer) bool {
	var totalBytes, readBytes units.Bytes
	for _, statser := range c.statsers {
		totalBytes += units.Bytes(statser.BytesTotal)
		readBytes += units.Bytes(statser.BytesRead())
	}
	fmt.Fprintf(w, "(%d/%d) ", atomic.LoadInt64(&c.completed), len(c.statsers))
	rate := c.incrRate(readBytes)
	rows := atomic.LoadInt64(&c.rows)
	if totalBytes == 0 || readBytes > totalBytes {
		fmt.Fprintf(w, "%s %s/s %d rows\n", readBytes.Abbrev(), rate.Abbrev(), rows)
	} else {
		fmt.Fprintf(w, "%s/%s %s/s %.2f%% %d rows\n", readBytes.Abbrev(), totalBytes.Abbrev(), rate.Abbrev(), float64(readBytes)/float64(totalBytes)*100, rows)
	}
	return c.ctx.Err() == nil
}

func (c *Command) incrRate(readBytes units.Bytes) units.Bytes {
	c.rate.Incr(int64(readBytes) - c.totalRead)
	c.totalRead = int64(readBytes)
	return units.Bytes(c.rate.Rate())
}
