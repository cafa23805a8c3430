// Package config loads service configuration from an optional YAML file,
// a local .env file and FURNICOST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"furnicost/internal/domain/costing"
	"furnicost/internal/domain/pricing"
)

// EnvPrefix prefixes every environment override, e.g. FURNICOST_HTTP_ADDR.
const EnvPrefix = "FURNICOST"

// Config is the full service configuration.
type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN              string        `mapstructure:"dsn"`
		MaxConns         int32         `mapstructure:"max_conns"`
		MinConns         int32         `mapstructure:"min_conns"`
		StatementTimeout time.Duration `mapstructure:"statement_timeout"`
		Migrate          bool          `mapstructure:"migrate"`
	} `mapstructure:"postgres"`

	Pricing Pricing `mapstructure:"pricing"`

	Audit struct {
		Enabled           bool `mapstructure:"enabled"`
		CompressThreshold int  `mapstructure:"compress_threshold"`
	} `mapstructure:"audit"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"metrics"`

	// Worker drives the background repricing of stored product prices.
	Worker struct {
		Interval  time.Duration `mapstructure:"interval"`
		Debounce  time.Duration `mapstructure:"debounce"`
		BatchSize int           `mapstructure:"batch_size"`
	} `mapstructure:"worker"`
}

// Pricing holds the costing and quoting coefficients.
type Pricing struct {
	Currency             string             `mapstructure:"currency"`
	PaintLossPercent     float64            `mapstructure:"paint_loss_percent"`
	DefaultMarkupPercent float64            `mapstructure:"default_markup_percent"`
	MissingRecipePolicy  string             `mapstructure:"missing_recipe_policy"`
	RentabilityRule      string             `mapstructure:"rentability_rule"`
	MinDisplayMargin     float64            `mapstructure:"min_display_margin"`
	Collections          map[string]float64 `mapstructure:"collections"`
	MaterialKinds        map[string]float64 `mapstructure:"material_kinds"`
	QuoteCacheSize       int                `mapstructure:"quote_cache_size"`
	ObserveBreakdown     bool               `mapstructure:"observe_breakdown"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "" || c.App.Env == "development"
}

// Policy returns the parsed missing-recipe policy. Validate guarantees it parses.
func (p Pricing) Policy() costing.MissingRecipePolicy {
	policy, _ := costing.ParseMissingRecipePolicy(p.MissingRecipePolicy)
	return policy
}

// Settings returns the global costing coefficients.
func (p Pricing) Settings() costing.Settings {
	return costing.Settings{
		Currency:         p.Currency,
		PaintLossPercent: typesNumber(p.PaintLossPercent),
	}
}

// DefaultMarkup returns the default markup as a decimal.
func (p Pricing) DefaultMarkup() decimal.Decimal {
	return decimal.NewFromFloat(p.DefaultMarkupPercent)
}

// MinMargin returns the rentability threshold as a decimal.
func (p Pricing) MinMargin() decimal.Decimal {
	return decimal.NewFromFloat(p.MinDisplayMargin)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.max_upload_bytes", 10<<20)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.statement_timeout", 30*time.Second)
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("pricing.currency", "RUB")
	v.SetDefault("pricing.paint_loss_percent", 0)
	v.SetDefault("pricing.default_markup_percent", 0)
	v.SetDefault("pricing.missing_recipe_policy", string(costing.MissingRecipeSkip))
	v.SetDefault("pricing.rentability_rule", pricing.DefaultRentabilityRule)
	v.SetDefault("pricing.min_display_margin", 20)
	v.SetDefault("pricing.quote_cache_size", 1024)
	v.SetDefault("pricing.observe_breakdown", false)

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.compress_threshold", 4096)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("worker.interval", time.Hour)
	v.SetDefault("worker.debounce", 5*time.Second)
	v.SetDefault("worker.batch_size", 100)
}

// Load reads configuration. path may be empty; then FURNICOST_CONFIG is
// consulted and, failing that, only defaults and environment apply.
// A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Postgres.MaxConns < 0 || c.Postgres.MinConns < 0 {
		errs = append(errs, errors.New("postgres pool sizes cannot be negative"))
	}
	if c.Postgres.MaxConns > 0 && c.Postgres.MinConns > c.Postgres.MaxConns {
		errs = append(errs, errors.New("postgres.min_conns exceeds postgres.max_conns"))
	}
	if _, ok := costing.ParseMissingRecipePolicy(c.Pricing.MissingRecipePolicy); !ok {
		errs = append(errs, fmt.Errorf("unknown pricing.missing_recipe_policy %q", c.Pricing.MissingRecipePolicy))
	}
	if c.Pricing.PaintLossPercent < 0 {
		errs = append(errs, errors.New("pricing.paint_loss_percent cannot be negative"))
	}
	if c.Pricing.DefaultMarkupPercent < 0 {
		errs = append(errs, errors.New("pricing.default_markup_percent cannot be negative"))
	}
	if c.Pricing.QuoteCacheSize < 0 {
		errs = append(errs, errors.New("pricing.quote_cache_size cannot be negative"))
	}
	if c.Pricing.RentabilityRule != "" {
		if _, err := pricing.CompileRentabilityRule(c.Pricing.RentabilityRule); err != nil {
			errs = append(errs, fmt.Errorf("pricing.rentability_rule: %w", err))
		}
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("http.max_upload_bytes must be positive"))
	}
	if c.Worker.Interval < 0 || c.Worker.Debounce < 0 {
		errs = append(errs, errors.New("worker intervals cannot be negative"))
	}

	return errors.Join(errs...)
}
