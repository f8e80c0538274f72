package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type cacheKey struct {
	sum  uint64
	size int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("pqjson:%016x:%d", k.sum, k.size)
}

type cachedResult struct {
	body []byte
	rows int64
}

func (r *cachedResult) MarshalBinary() ([]byte, error) {
	b := make([]byte, 8, 8+len(r.body))
	binary.BigEndian.PutUint64(b, uint64(r.rows))
	return append(b, r.body...), nil
}

func (r *cachedResult) UnmarshalBinary(b []byte) error {
	if len(b) < 8 {
		return errors.New("short cache entry")
	}
	r.rows = int64(binary.BigEndian.Uint64(b))
	r.body = b[8:]
	return nil
}

// resultCache holds recent conversion outputs keyed by a hash of the input
// and the options that shaped the output.  Either tier may be absent: the
// local LRU when size is not positive, the shared Redis tier when rclient
// is nil.  Entries found only in Redis are copied into the LRU.
type resultCache struct {
	lru      *lru.Cache[cacheKey, *cachedResult]
	maxEntry int
	redis    *redis.Client
	expiry   time.Duration
	hits     prometheus.Counter
	misses   prometheus.Counter
}

func newResultCache(size, maxEntry int, rclient *redis.Client, expiry time.Duration, registerer prometheus.Registerer) (*resultCache, error) {
	var local *lru.Cache[cacheKey, *cachedResult]
	if size > 0 {
		var err error
		local, err = lru.New[cacheKey, *cachedResult](size)
		if err != nil {
			return nil, err
		}
	}
	factory := promauto.With(registerer)
	return &resultCache{
		lru:      local,
		maxEntry: maxEntry,
		redis:    rclient,
		expiry:   expiry,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "pqjson_cache_hits_total",
			Help: "Number of conversions served from the result cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "pqjson_cache_misses_total",
			Help: "Number of conversions not found in the result cache.",
		}),
	}, nil
}

func newCacheKey(input []byte, opts string) cacheKey {
	d := xxhash.New()
	d.Write(input)
	d.WriteString(opts)
	return cacheKey{sum: d.Sum64(), size: len(input)}
}

// get looks key up locally, then in Redis.  A Redis failure is returned
// along with a miss.
func (c *resultCache) get(ctx context.Context, key cacheKey) (*cachedResult, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	if c.lru != nil {
		if res, ok := c.lru.Get(key); ok {
			c.hits.Inc()
			return res, true, nil
		}
	}
	if c.redis != nil {
		b, err := c.redis.Get(ctx, key.String()).Bytes()
		if err == nil {
			var res cachedResult
			if err := res.UnmarshalBinary(b); err != nil {
				c.misses.Inc()
				return nil, false, err
			}
			c.hits.Inc()
			if c.lru != nil {
				c.lru.Add(key, &res)
			}
			return &res, true, nil
		}
		if !errors.Is(err, redis.Nil) {
			c.misses.Inc()
			return nil, false, err
		}
	}
	c.misses.Inc()
	return nil, false, nil
}

func (c *resultCache) add(ctx context.Context, key cacheKey, res *cachedResult) error {
	if c == nil || len(res.body) > c.maxEntry {
		return nil
	}
	if c.lru != nil {
		c.lru.Add(key, res)
	}
	if c.redis != nil {
		return c.redis.Set(ctx, key.String(), res, c.expiry).Err()
	}
	return nil
}

func (c *resultCache) len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *resultCache) close() error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Close()
}
