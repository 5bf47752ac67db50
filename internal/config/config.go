package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/XavierBriggs/oddsboard/internal/scheduler"
	"github.com/XavierBriggs/oddsboard/internal/view"
)

// EnvPrefix prefixes every environment override: ODDSBOARD_ENDPOINT, ODDSBOARD_LEAGUE, ...
const EnvPrefix = "ODDSBOARD"

// Config holds OddsBoard configuration
type Config struct {
	Endpoint        string        `mapstructure:"endpoint"`         // odds API base URL
	SourceFile      string        `mapstructure:"source_file"`      // read snapshots from a JSON file instead of HTTP
	PollInterval    time.Duration `mapstructure:"poll_interval"`    // time between polls
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`  // per-request HTTP timeout
	DisplayTimezone string        `mapstructure:"display_timezone"` // IANA zone match dates are shown in
	League          string        `mapstructure:"league"`           // league selected at startup

	HTTPAddr string `mapstructure:"http_addr"` // web server address, disabled when empty
	Terminal bool   `mapstructure:"terminal"`  // print the board to stdout
	Color    bool   `mapstructure:"color"`     // ANSI colors in the terminal

	RedisURL      string        `mapstructure:"redis_url"` // publisher disabled when empty
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

var defaults = map[string]interface{}{
	"endpoint":         "http://localhost:8000",
	"source_file":      "",
	"poll_interval":    scheduler.DefaultInterval,
	"request_timeout":  30 * time.Second,
	"display_timezone": view.DefaultTimezone,
	"league":           "",
	"http_addr":        "",
	"terminal":         true,
	"color":            true,
	"redis_url":        "",
	"redis_password":   "",
	"redis_db":         0,
	"cache_ttl":        5 * time.Minute,
	"log_level":        "info",
	"log_format":       "text",
}

// Load reads configuration. Precedence, highest first: environment (a .env
// file is loaded into it when present), oddsboard.yaml in configDir, defaults.
// A missing yaml file is not an error.
func Load(configDir string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configDir == "" {
		configDir = "./config"
	}
	v.SetConfigName("oddsboard")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	if c.Endpoint == "" && c.SourceFile == "" {
		return errors.New("config: endpoint or source_file is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Location loads the display timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: display_timezone %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

// NewLogger builds the process logger from log_level and log_format
func (c *Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
