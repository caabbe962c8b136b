// Package config loads and validates the server configuration from an
// optional YAML file plus environment overrides. Every option has a default;
// a missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

// Environment variables recognized by Load.
const (
	EnvConfigPath   = "NOTIFLY_MCP_CONFIG"
	EnvDocsIndexURL = "NOTIFLY_DOCS_INDEX_URL"
	EnvSnapshotDB   = "NOTIFLY_SNAPSHOT_DB"
	EnvCacheTTLSecs = "NOTIFLY_CACHE_TTL_SECS"
)

// DocsConfig locates the documentation index.
type DocsConfig struct {
	IndexURL string `yaml:"index_url"`
}

// SDKConfig maps each platform to its source file index.
type SDKConfig struct {
	IndexURLs map[string]string `yaml:"index_urls"`
}

// CacheConfig controls batch reuse and offline fallback.
type CacheConfig struct {
	TTLSecs      int    `yaml:"ttl_secs"`
	SnapshotPath string `yaml:"snapshot_path"`
}

// HTTPConfig bounds individual fetch attempts.
type HTTPConfig struct {
	TimeoutSecs int `yaml:"timeout_secs"`
	MaxRetries  int `yaml:"max_retries"`
}

// RankerConfig carries the BM25 parameters and per-tool field weights.
// b may legitimately be zero (length normalization off), so defaults are
// applied by unmarshalling over a pre-populated struct rather than by
// zero-value checks.
type RankerConfig struct {
	K1         float64            `yaml:"k1"`
	B          float64            `yaml:"b"`
	DocWeights map[string]float64 `yaml:"doc_weights"`
	SDKWeights map[string]float64 `yaml:"sdk_weights"`
}

// Config is the root configuration structure.
type Config struct {
	Docs   DocsConfig   `yaml:"docs"`
	SDK    SDKConfig    `yaml:"sdk"`
	Cache  CacheConfig  `yaml:"cache"`
	HTTP   HTTPConfig   `yaml:"http"`
	Ranker RankerConfig `yaml:"ranker"`
}

// Field names the rankers actually see; weight keys outside these sets are
// configuration mistakes and rejected at load time.
var (
	docFields = map[string]bool{"title": true, "description": true, "section": true, "url": true}
	sdkFields = map[string]bool{"name": true, "path": true}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Docs: DocsConfig{
			IndexURL: "https://docs.notifly.tech/llms.txt",
		},
		SDK: SDKConfig{
			IndexURLs: map[string]string{
				"ios":          "https://docs.notifly.tech/sdk-index/ios.md",
				"android":      "https://docs.notifly.tech/sdk-index/android.md",
				"flutter":      "https://docs.notifly.tech/sdk-index/flutter.md",
				"react-native": "https://docs.notifly.tech/sdk-index/react-native.md",
				"js":           "https://docs.notifly.tech/sdk-index/js.md",
			},
		},
		Cache: CacheConfig{
			TTLSecs:      300,
			SnapshotPath: "~/.notifly-mcp/snapshots.db",
		},
		HTTP: HTTPConfig{
			TimeoutSecs: 15,
			MaxRetries:  3,
		},
		Ranker: RankerConfig{
			K1: 1.5,
			B:  0.75,
			DocWeights: map[string]float64{
				"title":       3.0,
				"description": 1.5,
				"section":     1.0,
				"url":         0.5,
			},
			SDKWeights: map[string]float64{
				"name": 3.0,
				"path": 1.0,
			},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $NOTIFLY_MCP_CONFIG when path is empty; a missing file is fine), then
// environment overrides. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.expandSnapshotPath(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDocsIndexURL); v != "" {
		cfg.Docs.IndexURL = v
	}
	if v := os.Getenv(EnvSnapshotDB); v != "" {
		cfg.Cache.SnapshotPath = v
	}
	if v := os.Getenv(EnvCacheTTLSecs); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSecs = secs
		}
	}
}

// Validate fails fast on parameters that would otherwise surface as wrong
// scores or divide-by-zero denominators mid-computation.
func (c *Config) Validate() error {
	if c.Docs.IndexURL == "" {
		return fmt.Errorf("docs.index_url cannot be empty")
	}
	for platform, url := range c.SDK.IndexURLs {
		if !types.ValidPlatform(types.Platform(platform)) {
			return fmt.Errorf("sdk.index_urls: unknown platform %q", platform)
		}
		if url == "" {
			return fmt.Errorf("sdk.index_urls.%s cannot be empty", platform)
		}
	}
	if c.Cache.TTLSecs < 0 {
		return fmt.Errorf("cache.ttl_secs cannot be negative")
	}
	if c.HTTP.TimeoutSecs <= 0 {
		return fmt.Errorf("http.timeout_secs must be positive")
	}
	if c.HTTP.MaxRetries < 1 {
		return fmt.Errorf("http.max_retries must be >= 1")
	}
	if c.Ranker.K1 < 0 {
		return fmt.Errorf("ranker.k1 cannot be negative")
	}
	if c.Ranker.B < 0 || c.Ranker.B > 1 {
		return fmt.Errorf("ranker.b must be within [0, 1] to keep the length-normalization denominator positive")
	}
	if err := validateWeights("ranker.doc_weights", c.Ranker.DocWeights, docFields); err != nil {
		return err
	}
	if err := validateWeights("ranker.sdk_weights", c.Ranker.SDKWeights, sdkFields); err != nil {
		return err
	}
	return nil
}

func validateWeights(section string, weights map[string]float64, known map[string]bool) error {
	for field, w := range weights {
		if !known[field] {
			return fmt.Errorf("%s: unknown field %q", section, field)
		}
		if w < 0 {
			return fmt.Errorf("%s.%s cannot be negative", section, field)
		}
	}
	return nil
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSecs) * time.Second
}

// HTTPTimeout returns the per-attempt HTTP timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSecs) * time.Second
}

// SDKIndexURLs returns the platform index map with typed keys.
func (c *Config) SDKIndexURLs() map[types.Platform]string {
	urls := make(map[types.Platform]string, len(c.SDK.IndexURLs))
	for platform, url := range c.SDK.IndexURLs {
		urls[types.Platform(platform)] = url
	}
	return urls
}

// expandSnapshotPath resolves a leading ~ against the user home directory.
func (c *Config) expandSnapshotPath() error {
	path := c.Cache.SnapshotPath
	if len(path) < 2 || path[:2] != "~/" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	c.Cache.SnapshotPath = filepath.Join(home, path[2:])
	return nil
}
