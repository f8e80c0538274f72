package service

import (
	"bytes"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/brimdata/pqjson"
	"github.com/brimdata/pqjson/api"
	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/compress"
	"github.com/brimdata/pqjson/zqe"
	"go.uber.org/zap"
)

// convertConfig overlays the query parameters of r onto the configured
// conversion settings.
func (r *Request) convertConfig(w *ResponseWriter, conf convert.Config) (convert.Config, bool) {
	q := r.URL.Query()
	if s := q.Get("decoder"); s != "" {
		conf.Decoder = s
	}
	if s := q.Get("nonfinite"); s != "" {
		if err := conf.JSON.NonFinite.Set(s); err != nil {
			w.Error(zqe.ErrInvalid(err))
			return conf, false
		}
	}
	var ok bool
	if q.Has("ndjson") {
		if conf.JSON.NDJSON, ok = r.BoolFromQuery(w, "ndjson"); !ok {
			return conf, false
		}
	}
	if q.Has("strict") {
		if conf.JSON.Strict, ok = r.BoolFromQuery(w, "strict"); !ok {
			return conf, false
		}
	}
	return conf, true
}

// readBody checks the Content-Type of r and reads its possibly compressed
// body, bounded by max.
func (r *Request) readBody(w *ResponseWriter, max int64) ([]byte, bool) {
	if err := api.CheckParquetMediaType(r.Header.Get("Content-Type")); err != nil {
		w.Error(err)
		return nil, false
	}
	rc, err := compress.NewReader(r.Body)
	if err != nil {
		w.Error(zqe.ErrInvalid(err))
		return nil, false
	}
	defer rc.Close()
	b, err := convert.ReadInput(rc, max)
	if err != nil {
		w.Error(err)
		return nil, false
	}
	return b, true
}

func cacheOpts(conf convert.Config) string {
	return conf.Decoder + "\x00" + conf.JSON.NonFinite.String() + "\x00" +
		strconv.FormatBool(conf.JSON.Strict) + strconv.FormatBool(conf.JSON.NDJSON)
}

func handleConvert(c *Core, w *ResponseWriter, r *Request) {
	conf, ok := r.convertConfig(w, c.conf.Convert)
	if !ok {
		return
	}
	input, ok := r.readBody(w, conf.MaxInput())
	if !ok {
		return
	}
	key := newCacheKey(input, cacheOpts(conf))
	w.Header().Set("Content-Type", api.OutputMediaType(conf.JSON.NDJSON))
	res, ok, err := c.cache.get(r.Context(), key)
	if err != nil {
		r.Logger.Warn("Cache lookup failed", zap.Error(err))
	}
	if ok {
		w.Header().Set(api.CacheHeader, "hit")
		w.Header().Set(api.RowCountHeader, strconv.FormatInt(res.rows, 10))
		w.Write(res.body)
		return
	}
	if c.cache != nil {
		w.Header().Set(api.CacheHeader, "miss")
	}
	start := time.Now()
	var buf bytes.Buffer
	stats, err := convert.Convert(r.Context(), input, &buf, conf)
	if err != nil {
		atomic.AddInt64(&c.failures, 1)
		c.metrics.failure(zqe.KindOf(err).Name())
		r.Logger.Info("Conversion failed", zap.Error(err))
		w.Header().Del(api.CacheHeader)
		w.Error(err)
		return
	}
	atomic.AddInt64(&c.conversions, 1)
	c.metrics.success(stats, time.Since(start).Seconds())
	r.Logger.Debug("Converted", zap.Object("stats", stats))
	if err := c.cache.add(r.Context(), key, &cachedResult{body: buf.Bytes(), rows: stats.Rows}); err != nil {
		r.Logger.Warn("Cache store failed", zap.Error(err))
	}
	w.Header().Set(api.RowCountHeader, strconv.FormatInt(stats.Rows, 10))
	w.Write(buf.Bytes())
}

func handleSchema(c *Core, w *ResponseWriter, r *Request) {
	conf, ok := r.convertConfig(w, c.conf.Convert)
	if !ok {
		return
	}
	input, ok := r.readBody(w, conf.MaxInput())
	if !ok {
		return
	}
	fields, err := convert.Schema(r.Context(), input, conf.Decoder)
	if err != nil {
		w.Error(err)
		return
	}
	w.Respond(http.StatusOK, api.SchemaResponse{
		Fields:  fields,
		Message: pqjson.String(fields),
	})
}

func handleStatus(c *Core, w *ResponseWriter, r *Request) {
	w.Respond(http.StatusOK, api.StatusResponse{
		Status:      "ok",
		Conversions: atomic.LoadInt64(&c.conversions),
		Failures:    atomic.LoadInt64(&c.failures),
		CacheItems:  c.cache.len(),
	})
}
