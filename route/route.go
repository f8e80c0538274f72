// Package route converts Parquet files dropped into a directory and routes
// each one to a success or failure directory, the way a dataflow processor
// routes a flow file to its success or failure relationship.
package route

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/pkg/fs"
	"github.com/brimdata/pqjson/pkg/storage"
	"github.com/brimdata/pqjson/zio/anyio"
	"github.com/brimdata/pqjson/zqe"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPattern = "*.parquet"
	DefaultSettle  = 500 * time.Millisecond
)

type Config struct {
	SuccessDir string
	FailureDir string
	// Pattern selects input files by base name, as in filepath.Match.
	Pattern     string
	Workers     int
	Convert     convert.Config
	Compression compress.Format
	// Attributes writes a JSON sidecar next to each routed file: output
	// attributes on success and the error on failure.
	Attributes bool
	// Settle is how long a file, new or already present, must be idle
	// before Watch takes it.
	Settle time.Duration
}

// Result describes the routing of one input file.  Err is the conversion
// error for an input routed to failure.
type Result struct {
	Input  string
	Output string
	Stats  convert.Stats
	Err    error
}

type Router struct {
	conf   Config
	engine storage.Engine
	logger *zap.Logger
}

func New(conf Config, logger *zap.Logger) (*Router, error) {
	if conf.SuccessDir == "" || conf.FailureDir == "" {
		return nil, errors.New("success and failure directories must be specified")
	}
	if conf.Pattern == "" {
		conf.Pattern = DefaultPattern
	}
	if _, err := filepath.Match(conf.Pattern, ""); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", conf.Pattern, err)
	}
	if conf.Workers < 1 {
		conf.Workers = 1
	}
	if conf.Settle <= 0 {
		conf.Settle = DefaultSettle
	}
	for _, dir := range []string{conf.SuccessDir, conf.FailureDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	engine := storage.NewRouter()
	engine.Enable(storage.FileScheme)
	return &Router{conf: conf, engine: engine, logger: logger}, nil
}

func (r *Router) match(path string) bool {
	ok, _ := filepath.Match(r.conf.Pattern, filepath.Base(path))
	return ok
}

// Process converts the file at path.  The JSON output is committed to the
// success directory and the input removed, or, if conversion fails, no
// output is left behind and the input is moved unmodified to the failure
// directory.  The returned error reports a failure to route the file, not
// a failure to convert it.
func (r *Router) Process(ctx context.Context, path string) (*Result, error) {
	res := &Result{Input: path}
	out := filepath.Join(r.conf.SuccessDir, convert.OutputName(path, r.conf.Convert.JSON.NDJSON, r.conf.Compression))
	res.Stats, res.Err = r.convert(ctx, path, out)
	if res.Err != nil {
		if ctx.Err() != nil {
			// Leave the input in place to be retried.
			return res, ctx.Err()
		}
		return res, r.fail(path, res.Err)
	}
	res.Output = out
	if r.conf.Attributes {
		if err := fs.MarshalJSONFile(successAttrs(path, res.Stats), out+".attrs.json", 0666); err != nil {
			return res, err
		}
	}
	return res, os.Remove(path)
}

func (r *Router) convert(ctx context.Context, path, out string) (convert.Stats, error) {
	in, err := anyio.Open(ctx, r.engine, path)
	if err != nil {
		return convert.Stats{}, err
	}
	input, err := convert.ReadInput(in, r.conf.Convert.MaxInput())
	in.Close()
	if err != nil {
		return convert.Stats{}, err
	}
	replacer, err := fs.NewFileReplacer(out, 0666)
	if err != nil {
		return convert.Stats{}, err
	}
	w, err := compress.NewWriter(replacer, r.conf.Compression)
	if err != nil {
		replacer.Abort()
		return convert.Stats{}, err
	}
	stats, err := convert.Convert(ctx, input, w, r.conf.Convert)
	if err != nil {
		storage.Abort(w)
		return stats, err
	}
	return stats, w.Close()
}

func (r *Router) fail(path string, cause error) error {
	dst := filepath.Join(r.conf.FailureDir, filepath.Base(path))
	if err := fs.Move(path, dst); err != nil {
		return err
	}
	if r.conf.Attributes {
		return fs.MarshalJSONFile(failureAttrs(cause), dst+".error.json", 0666)
	}
	return nil
}

func successAttrs(path string, stats convert.Stats) map[string]interface{} {
	return map[string]interface{}{
		"mime.type":    convert.MediaType,
		"source":       filepath.Base(path),
		"rows":         stats.Rows,
		"row_groups":   stats.RowGroups,
		"input_bytes":  stats.InputBytes,
		"output_bytes": stats.OutputBytes,
	}
}

func failureAttrs(err error) map[string]interface{} {
	return map[string]interface{}{
		"error": err.Error(),
		"kind":  zqe.KindOf(err).Name(),
	}
}

func (r *Router) log(res *Result, err error) {
	switch {
	case err != nil:
		r.logger.Error("Routing failed", zap.String("input", res.Input), zap.Error(err))
	case res.Err != nil:
		r.logger.Warn("Conversion failed", zap.String("input", res.Input), zap.Error(res.Err))
	default:
		r.logger.Info("Converted", zap.String("input", res.Input), zap.String("output", res.Output), zap.Object("stats", res.Stats))
	}
}

// RunOnce processes every matching file in dir, Workers at a time, and
// returns the results in no particular order.  It stops at the first
// routing error.
func (r *Router) RunOnce(ctx context.Context, dir string) ([]*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && r.match(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	results := make([]*Result, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.conf.Workers)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			res, err := r.Process(ctx, path)
			r.log(res, err)
			results[i] = res
			return err
		})
	}
	err = group.Wait()
	return results, err
}

// Watch processes matching files already in dir and then each new one as
// it appears, until ctx is canceled.
func (r *Router) Watch(ctx context.Context, dir string) error {
	watcher, err := fs.NewDirWatcher(dir, r.conf.Settle)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.conf.Workers)
	for ev := range watcher.Events(ctx) {
		if ev.Err != nil {
			group.Wait()
			return ev.Err
		}
		if !r.match(ev.Name) {
			continue
		}
		path := ev.Name
		group.Go(func() error {
			res, err := r.Process(ctx, path)
			r.log(res, err)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
