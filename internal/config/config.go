package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"cardtrack/internal/card"

	"github.com/spf13/viper"
)

type Server struct {
	Port              string `mapstructure:"port" json:"port"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec" json:"request_timeout_sec"`
}

type Ebay struct {
	ClientID     string `mapstructure:"client_id" json:"client_id"`
	ClientSecret string `mapstructure:"client_secret" json:"client_secret"`
	// ClientSecretARN names a Secrets Manager secret used when ClientSecret is empty.
	ClientSecretARN      string `mapstructure:"client_secret_arn" json:"client_secret_arn"`
	Env                  string `mapstructure:"env" json:"env"`
	Scope                string `mapstructure:"scope" json:"scope"`
	MarketplaceID        string `mapstructure:"marketplace_id" json:"marketplace_id"`
	SearchLimit          int    `mapstructure:"search_limit" json:"search_limit"`
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute" json:"max_requests_per_minute"`
	Burst                int    `mapstructure:"burst" json:"burst"`
}

// Enabled reports whether live lookups can be attempted at all.
func (e Ebay) Enabled() bool {
	return strings.TrimSpace(e.ClientID) != "" &&
		(strings.TrimSpace(e.ClientSecret) != "" || strings.TrimSpace(e.ClientSecretARN) != "")
}

type Pricing struct {
	DelayMS       int      `mapstructure:"delay_ms" json:"delay_ms"`
	CacheTTLSec   int      `mapstructure:"cache_ttl_sec" json:"cache_ttl_sec"`
	KeywordPasses []string `mapstructure:"keyword_passes" json:"keyword_passes"`
	Debug         bool     `mapstructure:"debug" json:"debug"`
}

func (p Pricing) Delay() time.Duration { return time.Duration(p.DelayMS) * time.Millisecond }

func (p Pricing) CacheTTL() time.Duration { return time.Duration(p.CacheTTLSec) * time.Second }

// Passes parses the configured keyword phrasings.
func (p Pricing) Passes() ([]card.Pass, error) { return card.ParsePasses(p.KeywordPasses) }

type Cache struct {
	Backend     string `mapstructure:"backend" json:"backend"`
	MaxItems    int    `mapstructure:"max_items" json:"max_items"`
	RedisAddr   string `mapstructure:"redis_addr" json:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix" json:"redis_prefix"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Webhook struct {
	VerificationToken string `mapstructure:"verification_token" json:"verification_token"`
	Endpoint          string `mapstructure:"endpoint" json:"endpoint"`
}

type Log struct {
	Level string `mapstructure:"level" json:"level"`
}

type Config struct {
	Server  Server  `mapstructure:"server" json:"server"`
	Ebay    Ebay    `mapstructure:"ebay" json:"ebay"`
	Pricing Pricing `mapstructure:"pricing" json:"pricing"`
	Cache   Cache   `mapstructure:"cache" json:"cache"`
	Webhook Webhook `mapstructure:"webhook" json:"webhook"`
	Log     Log     `mapstructure:"log" json:"log"`
	Stage   string  `mapstructure:"stage" json:"stage"`
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		Ebay: Ebay{
			Env:           "production",
			MarketplaceID: "EBAY_US",
			SearchLimit:   50,
			Burst:         1,
		},
		Pricing: Pricing{
			DelayMS:     1000,
			CacheTTLSec: 600,
			KeywordPasses: []string{
				"name set number condition",
				"name set number",
				"name number",
			},
		},
		Cache: Cache{
			Backend:     BackendMemory,
			MaxItems:    10000,
			RedisPrefix: "cardtrack:quote:",
		},
		Log:   Log{Level: "info"},
		Stage: "dev",
	}
}

// env maps config keys to the environment variables that override them.
var env = map[string]string{
	"server.port":                  "PORT",
	"server.request_timeout_sec":   "REQUEST_TIMEOUT_SEC",
	"ebay.client_id":               "EBAY_CLIENT_ID",
	"ebay.client_secret":           "EBAY_CLIENT_SECRET",
	"ebay.client_secret_arn":       "EBAY_CLIENT_SECRET_ARN",
	"ebay.env":                     "EBAY_ENV",
	"ebay.scope":                   "EBAY_MI_SCOPE",
	"ebay.marketplace_id":          "EBAY_MARKETPLACE_ID",
	"ebay.search_limit":            "EBAY_SEARCH_LIMIT",
	"ebay.max_requests_per_minute": "EBAY_MAX_RPM",
	"ebay.burst":                   "EBAY_BURST",
	"pricing.delay_ms":             "EBAY_DELAY_MS",
	"pricing.cache_ttl_sec":        "PRICING_CACHE_TTL_SEC",
	"pricing.keyword_passes":       "PRICING_KEYWORD_PASSES",
	"pricing.debug":                "PRICING_DEBUG",
	"cache.backend":                "CACHE_BACKEND",
	"cache.max_items":              "CACHE_MAX_ITEMS",
	"cache.redis_addr":             "REDIS_ADDR",
	"cache.redis_prefix":           "REDIS_PREFIX",
	"webhook.verification_token":   "EBAY_VERIFICATION_TOKEN",
	"webhook.endpoint":             "EBAY_WEBHOOK_ENDPOINT",
	"log.level":                    "LOG_LEVEL",
	"stage":                        "STAGE",
}

// Load reads a JSON config file over the defaults, then applies environment
// overrides. An empty path means $CONFIG_FILE, then ./cardtrack.json; a
// missing file is not an error.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()
	setDefaults(v, def)
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return def, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
	} else {
		v.SetConfigName("cardtrack")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return def, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("parse config: %w", err)
	}
	normalize(&cfg, def)
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)
	v.SetDefault("ebay.client_id", d.Ebay.ClientID)
	v.SetDefault("ebay.client_secret", d.Ebay.ClientSecret)
	v.SetDefault("ebay.client_secret_arn", d.Ebay.ClientSecretARN)
	v.SetDefault("ebay.env", d.Ebay.Env)
	v.SetDefault("ebay.scope", d.Ebay.Scope)
	v.SetDefault("ebay.marketplace_id", d.Ebay.MarketplaceID)
	v.SetDefault("ebay.search_limit", d.Ebay.SearchLimit)
	v.SetDefault("ebay.max_requests_per_minute", d.Ebay.MaxRequestsPerMinute)
	v.SetDefault("ebay.burst", d.Ebay.Burst)
	v.SetDefault("pricing.delay_ms", d.Pricing.DelayMS)
	v.SetDefault("pricing.cache_ttl_sec", d.Pricing.CacheTTLSec)
	v.SetDefault("pricing.keyword_passes", d.Pricing.KeywordPasses)
	v.SetDefault("pricing.debug", d.Pricing.Debug)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.max_items", d.Cache.MaxItems)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_prefix", d.Cache.RedisPrefix)
	v.SetDefault("webhook.verification_token", d.Webhook.VerificationToken)
	v.SetDefault("webhook.endpoint", d.Webhook.Endpoint)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("stage", d.Stage)
}

// normalize replaces out-of-range numbers with defaults.
func normalize(cfg *Config, d Config) {
	if cfg.Server.RequestTimeoutSec <= 0 {
		cfg.Server.RequestTimeoutSec = d.Server.RequestTimeoutSec
	}
	if cfg.Ebay.SearchLimit <= 0 {
		cfg.Ebay.SearchLimit = d.Ebay.SearchLimit
	}
	if cfg.Ebay.MaxRequestsPerMinute < 0 {
		cfg.Ebay.MaxRequestsPerMinute = 0
	}
	if cfg.Ebay.Burst <= 0 {
		cfg.Ebay.Burst = d.Ebay.Burst
	}
	if cfg.Pricing.DelayMS < 0 {
		cfg.Pricing.DelayMS = d.Pricing.DelayMS
	}
	if cfg.Pricing.CacheTTLSec <= 0 {
		cfg.Pricing.CacheTTLSec = d.Pricing.CacheTTLSec
	}
	if len(cfg.Pricing.KeywordPasses) == 0 {
		cfg.Pricing.KeywordPasses = d.Pricing.KeywordPasses
	}
	if cfg.Cache.MaxItems < 0 {
		cfg.Cache.MaxItems = 0
	}
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	cfg.Stage = strings.ToLower(strings.TrimSpace(cfg.Stage))
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("config: cache.backend=redis requires cache.redis_addr")
		}
	default:
		return fmt.Errorf("config: unknown cache.backend %q", c.Cache.Backend)
	}
	if _, err := c.Pricing.Passes(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
