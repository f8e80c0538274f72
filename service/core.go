package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/brimdata/pqjson/api"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Core struct {
	cache     *resultCache
	conf      Config
	handler   http.Handler
	logger    *zap.Logger
	metrics   *metrics
	registry  *prometheus.Registry
	routerAPI *mux.Router
	routerAux *mux.Router

	conversions int64
	failures    int64
}

func NewCore(conf Config) (*Core, error) {
	if conf.Logger == nil {
		conf.Logger = zap.NewNop()
	}
	if conf.Version == "" {
		conf.Version = "unknown"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	var rclient *redis.Client
	if conf.RedisURL != "" {
		opts, err := redis.ParseURL(conf.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis_url: %w", err)
		}
		rclient = redis.NewClient(opts)
	}
	var cache *resultCache
	if conf.CacheSize > 0 || rclient != nil {
		var err error
		cache, err = newResultCache(conf.CacheSize, int(conf.CacheMaxEntry), rclient, conf.RedisKeyExpiration, registry)
		if err != nil {
			return nil, err
		}
	}

	routerAux := mux.NewRouter()
	routerAux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	routerAux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", api.MediaTypeJSON)
		json.NewEncoder(w).Encode(&api.VersionResponse{Version: conf.Version})
	})

	routerAPI := mux.NewRouter()
	routerAPI.Use(requestIDMiddleware())
	routerAPI.Use(accessLogMiddleware(conf.Logger))
	routerAPI.Use(panicCatchMiddleware(conf.Logger))

	c := &Core{
		cache:     cache,
		conf:      conf,
		logger:    conf.Logger.Named("core"),
		metrics:   newMetrics(registry),
		registry:  registry,
		routerAPI: routerAPI,
		routerAux: routerAux,
	}
	c.addAPIServerRoutes()
	c.handler = cors.New(cors.Options{
		AllowedOrigins: conf.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{api.RequestIDHeader, api.RowCountHeader, api.CacheHeader},
	}).Handler(http.HandlerFunc(c.serve))
	c.logger.Info("Started",
		zap.String("decoder", conf.Convert.Decoder),
		zap.Int("cache_size", conf.CacheSize),
		zap.Bool("redis", rclient != nil),
		zap.Stringer("max_input_size", conf.Convert.MaxInputSize),
	)
	return c, nil
}

func (c *Core) addAPIServerRoutes() {
	c.handle("/convert", handleConvert).Methods("POST")
	c.handle("/schema", handleSchema).Methods("POST")
	c.handle("/status", handleStatus).Methods("GET")
}

func (c *Core) handle(path string, f func(*Core, *ResponseWriter, *Request)) *mux.Route {
	return c.routerAPI.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, req := newRequest(w, r, c)
		f(c, res, req)
	}))
}

func (c *Core) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Core) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.handler.ServeHTTP(w, r)
}

func (c *Core) serve(w http.ResponseWriter, r *http.Request) {
	var rm mux.RouteMatch
	if c.routerAux.Match(r, &rm) {
		rm.Handler.ServeHTTP(w, r)
		return
	}
	c.routerAPI.ServeHTTP(w, r)
}

func (c *Core) Shutdown() {
	if err := c.cache.close(); err != nil {
		c.logger.Warn("Closing result cache", zap.Error(err))
	}
	c.logger.Info("Shutdown",
		zap.Int64("conversions", atomic.LoadInt64(&c.conversions)),
		zap.Int64("failures", atomic.LoadInt64(&c.failures)),
	)
}
