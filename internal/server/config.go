package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/loan-payoff/internal/config"
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the server configuration.
const (
	EnvAddress      = "LOAN_PAYOFF_ADDRESS"
	EnvRedisAddress = "LOAN_PAYOFF_REDIS_ADDR"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address          string               `yaml:"address"`
	MaxRequestSize   string               `yaml:"maxRequestSize"`
	Logging          config.LoggingConfig `yaml:"logging"`
	RateLimit        RateLimitConfig      `yaml:"rateLimit"`
	Cache            CacheConfig          `yaml:"cache"`
	Limits           loans.Limits         `yaml:"limits"`
	requestSizeBytes int64
}

// RateLimitConfig bounds the requests a single client may make per window.
// Zero requests disables limiting.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// CacheConfig selects the result cache. A Redis address takes precedence over
// the in-memory cache; a size of zero disables the in-memory cache.
type CacheConfig struct {
	Size         int           `yaml:"size"`
	TTL          time.Duration `yaml:"ttl"`
	RedisAddress string        `yaml:"redisAddress"`
	KeyPrefix    string        `yaml:"keyPrefix"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Address:        constants.DefaultServerAddress,
		MaxRequestSize: fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes),
		RateLimit: RateLimitConfig{
			Requests: constants.DefaultRateLimitRequests,
			Window:   time.Minute,
		},
		Cache: CacheConfig{
			Size:      constants.DefaultCacheSize,
			TTL:       time.Hour,
			KeyPrefix: constants.DefaultCacheKeyPrefix,
		},
		Limits:           loans.DefaultLimits(),
		requestSizeBytes: constants.DefaultMaxRequestSizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvironment overrides the listen and Redis addresses from lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnvironment(lookup func(string) (string, bool)) {
	if value, ok := lookup(EnvAddress); ok && strings.TrimSpace(value) != "" {
		c.Address = strings.TrimSpace(value)
	}
	if value, ok := lookup(EnvRedisAddress); ok && strings.TrimSpace(value) != "" {
		c.Cache.RedisAddress = strings.TrimSpace(value)
	}
}

// RequestSizeBytes returns the configured request body limit in bytes.
func (c *Config) RequestSizeBytes() int64 {
	return c.requestSizeBytes
}

// SetRequestSizeBytes overrides the configured request body limit.
func (c *Config) SetRequestSizeBytes(size int64) {
	if size > 0 {
		c.requestSizeBytes = size
		c.MaxRequestSize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.RateLimit.Requests < 0 {
		c.RateLimit.Requests = 0
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Cache.Size < 0 {
		c.Cache.Size = 0
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = constants.DefaultCacheKeyPrefix
	}
	c.Limits = c.Limits.Normalize()

	sizeStr := strings.TrimSpace(c.MaxRequestSize)
	if sizeStr == "" {
		c.requestSizeBytes = constants.DefaultMaxRequestSizeBytes
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxRequestSizeBytes
	}
	c.requestSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 || (n != 0 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
