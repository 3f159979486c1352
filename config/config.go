package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ppclens/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	Log       LogConfig
	Analysis  domain.Settings `mapstructure:"-"`

	// Warnings lists analysis sections that failed to decode and fell back
	// to defaults. Callers log them once a logger exists.
	Warnings []string `mapstructure:"-"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds result store configuration
type StoreConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL      string        `mapstructure:"redis_url"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// UploadConfig holds report upload limits
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files.
// An empty path searches the default locations; a missing file there is not
// an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ppclens/")
	}

	// Environment variable settings: PPCLENS_STORE_REDIS_URL -> store.redis_url
	v.SetEnvPrefix("PPCLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Analysis, config.Warnings = decodeAnalysis(v)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.prefix", "ppclens:")
	v.SetDefault("store.ttl", "24h")
	v.SetDefault("store.sweep_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("upload.max_bytes", 20<<20)
	v.SetDefault("log.level", "")

	d := domain.DefaultSettings()

	v.SetDefault("analysis.rules.target_acos", d.Rules.TargetACOS)
	v.SetDefault("analysis.rules.min_clicks", d.Rules.MinClicks)
	v.SetDefault("analysis.rules.min_conversions", d.Rules.MinConversions)
	v.SetDefault("analysis.rules.harvest_threshold", d.Rules.HarvestThreshold)

	v.SetDefault("analysis.decision.target_acos", d.Decision.TargetACOS)
	v.SetDefault("analysis.decision.min_clicks", d.Decision.MinClicks)
	v.SetDefault("analysis.decision.min_orders", d.Decision.MinOrders)
	v.SetDefault("analysis.decision.test_band", d.Decision.TestBand)
	v.SetDefault("analysis.decision.zero_order_fails", d.Decision.ZeroOrderFails)

	v.SetDefault("analysis.negatives_scan.mode", d.NegativesScan.Mode)
	v.SetDefault("analysis.negatives_scan.min_clicks_no_order", d.NegativesScan.MinClicksNoOrder)
	v.SetDefault("analysis.negatives_scan.min_ctr", d.NegativesScan.MinCTR)
	v.SetDefault("analysis.negatives_scan.match_type", d.NegativesScan.MatchType)

	v.SetDefault("analysis.lexicon.min_clicks_for_bad", d.Lexicon.MinClicksForBad)
	v.SetDefault("analysis.lexicon.min_clicks_for_good", d.Lexicon.MinClicksForGood)
	v.SetDefault("analysis.lexicon.suggest_top_k", d.Lexicon.SuggestTopK)
	v.SetDefault("analysis.lexicon.ngram_max", d.Lexicon.NgramMax)
	v.SetDefault("analysis.lexicon.min_bad_freq", d.Lexicon.MinBadFreq)

	v.SetDefault("analysis.plan.campaign_name", d.Plan.CampaignName)
	v.SetDefault("analysis.plan.ad_group_prefix", d.Plan.AdGroupPrefix)
	v.SetDefault("analysis.plan.max_keyword_length", d.Plan.MaxKeywordLength)
	v.SetDefault("analysis.plan.min_bid", d.Plan.MinBid)
	v.SetDefault("analysis.plan.top_of_search_adj", d.Plan.TopOfSearchAdj)
	v.SetDefault("analysis.plan.neg_exact_acos", d.Plan.NegExactACOS)
}

// scanOptions is negatives_scan without its pattern map, which
// decodePatterns reads category by category
type scanOptions struct {
	Mode             string   `mapstructure:"mode"`
	MinClicksNoOrder float64  `mapstructure:"min_clicks_no_order"`
	MinCTR           float64  `mapstructure:"min_ctr"`
	MatchType        string   `mapstructure:"match_type"`
	PhraseRoots      []string `mapstructure:"phrase_roots"`
}

// decodeAnalysis reads each analysis section on its own. A section that
// fails to decode keeps its defaults and adds a warning; the rest still load.
func decodeAnalysis(v *viper.Viper) (domain.Settings, []string) {
	st := domain.DefaultSettings()
	var warnings []string

	decode := func(key string, apply func() error) {
		if err := apply(); err != nil {
			warnings = append(warnings, fmt.Sprintf("analysis.%s: %v (using defaults)", key, err))
		}
	}

	decode("columns_map", func() error {
		columns := map[string][]string{}
		if err := v.UnmarshalKey("analysis.columns_map", &columns); err != nil {
			return err
		}
		st.Columns = columns
		return nil
	})
	decode("rules", func() error {
		out := st.Rules
		if err := v.UnmarshalKey("analysis.rules", &out); err != nil {
			return err
		}
		st.Rules = out
		return nil
	})
	decode("decision", func() error {
		out := st.Decision
		if err := v.UnmarshalKey("analysis.decision", &out); err != nil {
			return err
		}
		st.Decision = out
		return nil
	})
	decode("negatives_scan", func() error {
		ns := st.NegativesScan
		out := scanOptions{
			Mode:             ns.Mode,
			MinClicksNoOrder: ns.MinClicksNoOrder,
			MinCTR:           ns.MinCTR,
			MatchType:        ns.MatchType,
			PhraseRoots:      ns.PhraseRoots,
		}
		if err := v.UnmarshalKey("analysis.negatives_scan", &out); err != nil {
			return err
		}
		st.NegativesScan.Mode = out.Mode
		st.NegativesScan.MinClicksNoOrder = out.MinClicksNoOrder
		st.NegativesScan.MinCTR = out.MinCTR
		st.NegativesScan.MatchType = out.MatchType
		st.NegativesScan.PhraseRoots = out.PhraseRoots
		return nil
	})
	decode("lexicon", func() error {
		out := st.Lexicon
		if err := v.UnmarshalKey("analysis.lexicon", &out); err != nil {
			return err
		}
		st.Lexicon = out
		return nil
	})
	decode("plan", func() error {
		out := st.Plan
		if err := v.UnmarshalKey("analysis.plan", &out); err != nil {
			return err
		}
		st.Plan = out
		return nil
	})

	patterns, patternWarnings := decodePatterns(v)
	st.NegativesScan.Patterns = patterns
	warnings = append(warnings, patternWarnings...)

	return st, warnings
}

// decodePatterns loads each pattern category separately so one malformed
// category does not disable the others. Viper lower-cases keys, so category
// tags are upper-cased back.
func decodePatterns(v *viper.Viper) (map[string][]string, []string) {
	patterns := map[string][]string{}
	const key = "analysis.negatives_scan.patterns"

	raw := v.Get(key)
	if raw == nil {
		return patterns, nil
	}
	categories, ok := raw.(map[string]any)
	if !ok {
		return patterns, []string{fmt.Sprintf("%s: expected a map of category lists, got %T", key, raw)}
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	slices.Sort(names)

	var warnings []string
	for _, name := range names {
		var tokens []string
		if err := v.UnmarshalKey(key+"."+name, &tokens); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s.%s: %v (category skipped)", key, name, err))
			continue
		}
		patterns[strings.ToUpper(name)] = tokens
	}
	return patterns, warnings
}

// validate validates the configuration
func validate(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric, got: %q", config.Server.Port)
	}

	if config.Store.Type != "memory" && config.Store.Type != "redis" {
		return fmt.Errorf("store type must be 'memory' or 'redis', got: %s", config.Store.Type)
	}

	if config.Store.Type == "redis" && config.Store.RedisURL == "" {
		return fmt.Errorf("redis URL is required when store type is 'redis' (set PPCLENS_STORE_REDIS_URL)")
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	if config.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max_bytes must be positive, got: %d", config.Upload.MaxBytes)
	}

	return nil
}
