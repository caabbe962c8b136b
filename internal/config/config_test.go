package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://docs.notifly.tech/llms.txt", cfg.Docs.IndexURL)
	assert.Equal(t, 1.5, cfg.Ranker.K1)
	assert.Equal(t, 0.75, cfg.Ranker.B)
	assert.Equal(t, 3.0, cfg.Ranker.DocWeights["title"])
	assert.Equal(t, 3.0, cfg.Ranker.SDKWeights["name"])
	assert.Len(t, cfg.SDK.IndexURLs, len(types.AllPlatforms))
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
docs:
  index_url: https://staging.notifly.tech/llms.txt
cache:
  ttl_secs: 60
ranker:
  k1: 1.2
  b: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.notifly.tech/llms.txt", cfg.Docs.IndexURL)
	assert.Equal(t, 60, cfg.Cache.TTLSecs)
	assert.Equal(t, 1.2, cfg.Ranker.K1)
	// An explicit zero must survive; defaults only fill missing keys.
	assert.Equal(t, 0.0, cfg.Ranker.B)
	// Untouched sections keep their defaults.
	assert.Equal(t, 15, cfg.HTTP.TimeoutSecs)
	assert.Equal(t, 1.5, cfg.Ranker.DocWeights["description"])
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDocsIndexURL, "https://env.notifly.tech/llms.txt")
	t.Setenv(EnvCacheTTLSecs, "42")
	dbPath := filepath.Join(t.TempDir(), "snap.db")
	t.Setenv(EnvSnapshotDB, dbPath)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://env.notifly.tech/llms.txt", cfg.Docs.IndexURL)
	assert.Equal(t, 42, cfg.Cache.TTLSecs)
	assert.Equal(t, dbPath, cfg.Cache.SnapshotPath)
}

func TestValidateRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative k1",
			mutate:  func(c *Config) { c.Ranker.K1 = -0.1 },
			wantErr: "ranker.k1",
		},
		{
			name:    "b above one",
			mutate:  func(c *Config) { c.Ranker.B = 1.5 },
			wantErr: "ranker.b",
		},
		{
			name:    "b below zero",
			mutate:  func(c *Config) { c.Ranker.B = -0.25 },
			wantErr: "ranker.b",
		},
		{
			name:    "negative doc weight",
			mutate:  func(c *Config) { c.Ranker.DocWeights["title"] = -1 },
			wantErr: "doc_weights.title",
		},
		{
			name:    "unknown weight field",
			mutate:  func(c *Config) { c.Ranker.SDKWeights["body"] = 1 },
			wantErr: `unknown field "body"`,
		},
		{
			name:    "unknown platform",
			mutate:  func(c *Config) { c.SDK.IndexURLs["windows-phone"] = "https://example.com" },
			wantErr: `unknown platform "windows-phone"`,
		},
		{
			name:    "empty docs index",
			mutate:  func(c *Config) { c.Docs.IndexURL = "" },
			wantErr: "docs.index_url",
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.HTTP.MaxRetries = 0 },
			wantErr: "http.max_retries",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAcceptsBoundaryB(t *testing.T) {
	for _, b := range []float64{0, 1} {
		cfg := Default()
		cfg.Ranker.B = b
		assert.NoError(t, cfg.Validate())
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "docs: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSnapshotPathExpansion(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.expandSnapshotPath())
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".notifly-mcp", "snapshots.db"), cfg.Cache.SnapshotPath)
}

func TestSDKIndexURLsTypedKeys(t *testing.T) {
	cfg := Default()
	urls := cfg.SDKIndexURLs()
	for _, platform := range types.AllPlatforms {
		assert.NotEmpty(t, urls[platform], "missing index for %s", platform)
	}
}
