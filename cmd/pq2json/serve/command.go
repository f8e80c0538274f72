package serve

import (
	"flag"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"syscall"

	"github.com/brimdata/pqjson/cli"
	"github.com/brimdata/pqjson/cli/logflags"
	"github.com/brimdata/pqjson/cmd/pq2json/root"
	"github.com/brimdata/pqjson/pkg/charm"
	"github.com/brimdata/pqjson/pkg/httpd"
	"github.com/brimdata/pqjson/pkg/rlimit"
	"github.com/brimdata/pqjson/service"
	"github.com/brimdata/pqjson/service/logger"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "serve",
	Usage: "serve [options]",
	Short: "run the conversion service",
	Long: `
The serve command listens for HTTP requests on the interface and port given
by -l.  A POST to /convert with a Parquet body, optionally compressed,
responds with the JSON conversion.  The query parameters decoder, ndjson,
nonfinite and strict select the decoder and output options.  A POST to
/schema responds with the schema of the body.  GET /status reports
conversion counts, /metrics serves Prometheus metrics, and /version the
version of the service.

Recent conversion results are cached by input hash and options, so
repeated uploads of the same file are answered without decoding it again.
With -redis.url (or redis_url in the config file), results are also shared
through Redis with every other instance using the same server.

The -config option names a YAML file holding the listen address, cache
and conversion settings, and log configuration.  When it is given, its
log section is used in place of the -log flags.

The -log.level option controls log verbosity. Available levels,
ordered from most to least verbose, are debug, info (the default),
warn, error, dpanic, panic, and fatal.`,
	HiddenFlags: "portfile,pprof",
	New:         New,
}

type Command struct {
	*root.Command
	logflags logflags.Flags

	configFile  string
	corsOrigins []string
	listenAddr  string
	portFile    string
	pprof       bool
	redisURL    string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.logflags.SetFlags(f)
	f.StringVar(&c.configFile, "config", "", "path to a YAML service config file")
	f.Func("cors.origin", "CORS allowed origin (may be repeated)", func(s string) error {
		c.corsOrigins = append(c.corsOrigins, s)
		return nil
	})
	f.StringVar(&c.listenAddr, "l", "", "[addr]:port to listen on (default \":9868\")")
	f.StringVar(&c.portFile, "portfile", "", "write listen port to file")
	f.StringVar(&c.redisURL, "redis.url", "", "share cached results through this Redis server (redis://host:port/db)")
	f.BoolVar(&c.pprof, "pprof", false, "add pprof routes")
	return c, nil
}

func (c *Command) Run(args []string) error {
	// Don't include SIGPIPE here or else a write to a closed socket (i.e.,
	// a broken network connection) will cancel the context on Linux.
	ctx, cleanup, err := c.InitWithSignals([]cli.Initializer{&c.logflags}, syscall.SIGINT, syscall.SIGTERM)
	if err != nil {
		return err
	}
	defer cleanup()
	conf := service.DefaultConfig()
	if c.configFile != "" {
		if conf, err = service.LoadConfig(c.configFile); err != nil {
			return err
		}
		conf.Logger, err = logger.New(conf.Log)
	} else {
		conf.Logger, err = c.logflags.Open()
	}
	if err != nil {
		return err
	}
	defer conf.Logger.Sync()
	if c.listenAddr != "" {
		conf.Listen = c.listenAddr
	}
	if c.redisURL != "" {
		conf.RedisURL = c.redisURL
	}
	if limit, err := rlimit.RaiseOpenFilesLimit(); err != nil {
		conf.Logger.Warn("Raising open files limit failed", zap.Error(err))
	} else {
		conf.Logger.Info("Open files limit", zap.Uint64("limit", limit))
	}
	conf.CORSAllowedOrigins = append(conf.CORSAllowedOrigins, c.corsOrigins...)
	conf.Version = cli.Version()
	core, err := service.NewCore(conf)
	if err != nil {
		return err
	}
	defer core.Shutdown()
	var h http.Handler = core
	if c.pprof {
		h = pprofHandlers(h)
	}
	srv := httpd.New(conf.Listen, h)
	srv.SetLogger(conf.Logger.Named("httpd"))
	if err := srv.Start(ctx); err != nil {
		return err
	}
	if c.portFile != "" {
		if err := c.writePortFile(srv.Addr()); err != nil {
			conf.Logger.Warn("Writing port file failed", zap.Error(err))
		}
	}
	return srv.Wait()
}

func (c *Command) writePortFile(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	return os.WriteFile(c.portFile, []byte(port), 0644)
}

func pprofHandlers(h http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
