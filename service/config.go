package service

import (
	"fmt"
	"os"
	"time"

	"github.com/brimdata/pqjson/api/client"
	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/units"
	"github.com/brimdata/pqjson/service/logger"
	"github.com/brimdata/pqjson/zio/anyio"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCacheSize          = 128
	DefaultCacheMaxEntry      = 8 << 20
	DefaultRedisKeyExpiration = 24 * time.Hour
)

type Config struct {
	Listen        string         `yaml:"listen"`
	Convert       convert.Config `yaml:"convert"`
	CacheSize     int            `yaml:"cache_size"`
	CacheMaxEntry units.Bytes    `yaml:"cache_max_entry"`
	// RedisURL, when set, adds a result cache tier shared by every
	// instance pointed at the same server, e.g. redis://localhost:6379/0.
	RedisURL string `yaml:"redis_url"`
	// RedisKeyExpiration of zero means keys never expire and should only
	// be used with a Redis eviction policy.
	RedisKeyExpiration time.Duration `yaml:"redis_key_expiration"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	Log                logger.Config `yaml:"log"`

	Logger  *zap.Logger `yaml:"-"`
	Version string      `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Listen:             fmt.Sprintf(":%d", client.DefaultPort),
		CacheSize:          DefaultCacheSize,
		CacheMaxEntry:      DefaultCacheMaxEntry,
		RedisKeyExpiration: DefaultRedisKeyExpiration,
		Log: logger.Config{
			Path: "stderr",
			Mode: logger.FileModeAppend,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults.  A negative
// cache_size disables the result cache.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return conf, fmt.Errorf("%s: %w", path, err)
	}
	if err := anyio.CheckDecoder(conf.Convert.Decoder); err != nil {
		return conf, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}
