// Package config loads application configuration from file, environment,
// and defaults, and installs the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Rate      RateConfig      `yaml:"rate" mapstructure:"rate"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Roles     RolesConfig     `yaml:"roles" mapstructure:"roles"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RateConfig configures fetch politeness toward external hosts.
type RateConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyKB   int `yaml:"max_body_kb" mapstructure:"max_body_kb"`
	MinDelayMS  int `yaml:"min_delay_ms" mapstructure:"min_delay_ms"`
	MaxDelayMS  int `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	Retries     int `yaml:"retries" mapstructure:"retries"`
}

// Timeout returns the per-request timeout as a duration.
func (r RateConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// MinDelay returns the minimum same-host delay as a duration.
func (r RateConfig) MinDelay() time.Duration {
	return time.Duration(r.MinDelayMS) * time.Millisecond
}

// MaxDelay returns the maximum same-host delay as a duration.
func (r RateConfig) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMS) * time.Millisecond
}

// CrawlConfig configures the per-company enrichment crawl.
type CrawlConfig struct {
	MaxDepth    int `yaml:"max_depth" mapstructure:"max_depth"`
	MaxPages    int `yaml:"max_pages" mapstructure:"max_pages"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// DiscoveryConfig configures the source fan-out phase.
type DiscoveryConfig struct {
	MaxCompanies int `yaml:"max_companies" mapstructure:"max_companies"`
	Concurrency  int `yaml:"concurrency" mapstructure:"concurrency"`
}

// OutputConfig configures artifact generation.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the status API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// RolesConfig carries the role set used when the CLI gets none.
type RolesConfig struct {
	Default []string `yaml:"default" mapstructure:"default"`
}

// SourcesConfig points at the optional source overlay file.
type SourcesConfig struct {
	OverlayPath string `yaml:"overlay_path" mapstructure:"overlay_path"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "scraper.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("rate.timeout_secs", 20)
	v.SetDefault("rate.max_body_kb", 2048)
	v.SetDefault("rate.min_delay_ms", 1000)
	v.SetDefault("rate.max_delay_ms", 3000)
	v.SetDefault("rate.retries", 3)
	v.SetDefault("crawl.max_depth", 2)
	v.SetDefault("crawl.max_pages", 12)
	v.SetDefault("crawl.concurrency", 4)
	v.SetDefault("discovery.max_companies", 50)
	v.SetDefault("discovery.concurrency", 5)
	v.SetDefault("output.dir", "data/company_contacts")
	v.SetDefault("server.port", 8080)
	v.SetDefault("sources.overlay_path", "sources.yaml")
	v.SetDefault("roles.default", []string{
		"software developer",
		"backend developer",
		"full stack developer",
		"software engineer",
		"web developer",
		"frontend developer",
		"python developer",
		"java developer",
	})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
