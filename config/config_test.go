package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppclens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no file or env vars", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, "memory", cfg.Store.Type)
		assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
		assert.Equal(t, 10*time.Minute, cfg.Store.SweepInterval)
		assert.Equal(t, "ppclens:", cfg.Store.Prefix)
		assert.Equal(t, 30, cfg.RateLimit.PerIP)
		assert.Equal(t, 10, cfg.RateLimit.Burst)
		assert.Equal(t, int64(20<<20), cfg.Upload.MaxBytes)
		assert.Empty(t, cfg.Warnings)

		want := domain.DefaultSettings()
		assert.Equal(t, want.Rules, cfg.Analysis.Rules)
		assert.Equal(t, want.Decision, cfg.Analysis.Decision)
		assert.Equal(t, want.Lexicon, cfg.Analysis.Lexicon)
		assert.Equal(t, want.Plan, cfg.Analysis.Plan)
		assert.Equal(t, want.NegativesScan.Mode, cfg.Analysis.NegativesScan.Mode)
		assert.Empty(t, cfg.Analysis.NegativesScan.Patterns)
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("PPCLENS_SERVER_PORT", "9090")
		t.Setenv("PPCLENS_SERVER_ENVIRONMENT", "production")
		t.Setenv("PPCLENS_STORE_TYPE", "redis")
		t.Setenv("PPCLENS_STORE_REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("PPCLENS_STORE_TTL", "1h")
		t.Setenv("PPCLENS_RATELIMIT_PER_IP", "200")
		t.Setenv("PPCLENS_LOG_LEVEL", "warn")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "production", cfg.Server.Environment)
		assert.Equal(t, "redis", cfg.Store.Type)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
		assert.Equal(t, time.Hour, cfg.Store.TTL)
		assert.Equal(t, 200, cfg.RateLimit.PerIP)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("reads the example config", func(t *testing.T) {
		cfg, err := Load("config.example.yaml")
		require.NoError(t, err)

		assert.Empty(t, cfg.Warnings)
		assert.Equal(t, []string{"otterbox", "spigen"}, cfg.Analysis.NegativesScan.Patterns["COMPETITOR"])
		assert.Equal(t, []string{"free", "used"}, cfg.Analysis.NegativesScan.PhraseRoots)
		assert.Equal(t, []string{"phone case"}, cfg.Analysis.Lexicon.Whitelist)
		assert.Equal(t, []string{"Customer Search Term", "Search Term"}, cfg.Analysis.Columns["search_term"])
		assert.True(t, cfg.Analysis.Decision.ZeroOrderFails)
	})
}

func TestLoad_PartialAnalysisKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
analysis:
  rules:
    target_acos: 0.40
  lexicon:
    ngram_max: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	defaults := domain.DefaultSettings()
	assert.Equal(t, 0.40, cfg.Analysis.Rules.TargetACOS)
	assert.Equal(t, defaults.Rules.MinClicks, cfg.Analysis.Rules.MinClicks)
	assert.Equal(t, 3, cfg.Analysis.Lexicon.NgramMax)
	assert.Equal(t, defaults.Lexicon.SuggestTopK, cfg.Analysis.Lexicon.SuggestTopK)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_MalformedSectionsFallBack(t *testing.T) {
	path := writeConfig(t, `
analysis:
  rules: "not a map"
  decision:
    target_acos: "thirty percent"
  plan:
    min_bid: 0.10
  negatives_scan:
    patterns:
      COMPETITOR: ["otterbox"]
      BROKEN:
        nested: map
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Rules, cfg.Analysis.Rules)
	assert.Equal(t, defaults.Decision, cfg.Analysis.Decision)
	assert.Equal(t, 0.10, cfg.Analysis.Plan.MinBid)

	// The good category survives the broken one
	assert.Equal(t, map[string][]string{"COMPETITOR": {"otterbox"}}, cfg.Analysis.NegativesScan.Patterns)

	require.NotEmpty(t, cfg.Warnings)
	joined := ""
	for _, w := range cfg.Warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "analysis.rules")
	assert.Contains(t, joined, "analysis.decision")
	assert.Contains(t, joined, "broken")
}

func TestLoad_BrokenPatternCategoryKeepsScanOptions(t *testing.T) {
	path := writeConfig(t, `
analysis:
  negatives_scan:
    mode: aggressive
    min_clicks_no_order: 7
    min_ctr: 0.002
    match_type: negative phrase
    phrase_roots: ["free", "used"]
    patterns:
      COMPETITOR: ["otterbox"]
      BROKEN:
        nested: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	scan := cfg.Analysis.NegativesScan
	assert.Equal(t, "aggressive", scan.Mode)
	assert.Equal(t, 7.0, scan.MinClicksNoOrder)
	assert.Equal(t, 0.002, scan.MinCTR)
	assert.Equal(t, "negative phrase", scan.MatchType)
	assert.Equal(t, []string{"free", "used"}, scan.PhraseRoots)
	assert.Equal(t, map[string][]string{"COMPETITOR": {"otterbox"}}, scan.Patterns)

	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "broken")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: "8080"},
			Store:  StoreConfig{Type: "memory"},
			Upload: UploadConfig{MaxBytes: 1024},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid memory config", mutate: func(c *Config) {}},
		{name: "valid redis config", mutate: func(c *Config) {
			c.Store.Type = "redis"
			c.Store.RedisURL = "redis://localhost:6379"
		}},
		{name: "non-numeric port", mutate: func(c *Config) { c.Server.Port = "http" }, wantErr: true},
		{name: "unknown store type", mutate: func(c *Config) { c.Store.Type = "memcached" }, wantErr: true},
		{name: "redis without url", mutate: func(c *Config) { c.Store.Type = "redis" }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.PerIP = -1 }, wantErr: true},
		{name: "zero upload limit", mutate: func(c *Config) { c.Upload.MaxBytes = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := validate(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
