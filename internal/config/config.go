// Package config loads the application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sheet      SheetConfig      `yaml:"sheet" mapstructure:"sheet"`
	Snapshot   SnapshotConfig   `yaml:"snapshot" mapstructure:"snapshot"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Delay      DelayConfig      `yaml:"delay" mapstructure:"delay"`
	Checkpoint CheckpointConfig `yaml:"checkpoint" mapstructure:"checkpoint"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	AutoPause  AutoPauseConfig  `yaml:"autopause" mapstructure:"autopause"`
	Archive    ArchiveConfig    `yaml:"archive" mapstructure:"archive"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// SheetConfig configures the spreadsheet record store.
type SheetConfig struct {
	Driver      string  `yaml:"driver" mapstructure:"driver"` // xlsx | gog
	Path        string  `yaml:"path" mapstructure:"path"`
	SheetID     string  `yaml:"id" mapstructure:"id"`
	Account     string  `yaml:"account" mapstructure:"account"`
	ColumnsFile string  `yaml:"columns_file" mapstructure:"columns_file"`
	Consultant  string  `yaml:"consultant" mapstructure:"consultant"`
	WriteRate   float64 `yaml:"write_rate" mapstructure:"write_rate"`
	ScanEndRow  int     `yaml:"scan_end_row" mapstructure:"scan_end_row"`
}

// SnapshotConfig configures the page-fetching capability.
type SnapshotConfig struct {
	Backend          string `yaml:"backend" mapstructure:"backend"` // exec | chromedp
	Command          string `yaml:"command" mapstructure:"command"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinBytes         int    `yaml:"min_bytes" mapstructure:"min_bytes"`
	AggregatorDomain string `yaml:"aggregator_domain" mapstructure:"aggregator_domain"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
}

// RetryConfig configures per-item fetch retries.
type RetryConfig struct {
	Times     int `yaml:"times" mapstructure:"times"`
	DelaySecs int `yaml:"delay_secs" mapstructure:"delay_secs"`
}

// DelayConfig is the randomized inter-item delay window.
type DelayConfig struct {
	MinSecs int `yaml:"min_secs" mapstructure:"min_secs"`
	MaxSecs int `yaml:"max_secs" mapstructure:"max_secs"`
}

// CheckpointConfig configures durable progress state.
type CheckpointConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	Interval int    `yaml:"interval" mapstructure:"interval"`
}

// ReportConfig configures progress reporting.
type ReportConfig struct {
	Interval   int    `yaml:"interval" mapstructure:"interval"`
	KnownTotal int    `yaml:"known_total" mapstructure:"known_total"`
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// AutoPauseConfig configures the run-level failure-rate breaker.
type AutoPauseConfig struct {
	FailThreshold float64 `yaml:"fail_threshold" mapstructure:"fail_threshold"`
	MinSamples    int     `yaml:"min_samples" mapstructure:"min_samples"`
}

// ArchiveConfig configures the optional result archive.
type ArchiveConfig struct {
	Driver           string `yaml:"driver" mapstructure:"driver"` // off | sqlite | postgres
	DSN              string `yaml:"dsn" mapstructure:"dsn"`
	SnapshotTTLHours int    `yaml:"snapshot_ttl_hours" mapstructure:"snapshot_ttl_hours"`
}

// ServerConfig configures the progress status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sheet.driver", "xlsx")
	v.SetDefault("sheet.path", "companies.xlsx")
	v.SetDefault("sheet.consultant", "Jacky")
	v.SetDefault("sheet.write_rate", 2.0)
	v.SetDefault("sheet.scan_end_row", 250)
	v.SetDefault("snapshot.backend", "exec")
	v.SetDefault("snapshot.command", "agent-browser")
	v.SetDefault("snapshot.timeout_secs", 60)
	v.SetDefault("snapshot.min_bytes", 100)
	v.SetDefault("snapshot.aggregator_domain", "104.com.tw")
	v.SetDefault("retry.times", 3)
	v.SetDefault("retry.delay_secs", 5)
	v.SetDefault("delay.min_secs", 8)
	v.SetDefault("delay.max_secs", 15)
	v.SetDefault("checkpoint.path", "checkpoint.json")
	v.SetDefault("checkpoint.interval", 5)
	v.SetDefault("report.interval", 5)
	v.SetDefault("report.known_total", 0)
	v.SetDefault("autopause.fail_threshold", 0.5)
	v.SetDefault("autopause.min_samples", 5)
	v.SetDefault("archive.driver", "off")
	v.SetDefault("archive.snapshot_ttl_hours", 24)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
