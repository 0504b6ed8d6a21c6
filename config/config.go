package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the map application. The map's
// content (center, zoom, layers) is fixed and not configurable.
type Config struct {
	Tiles   TilesConfig   `mapstructure:"tiles"`
	Log     LogConfig     `mapstructure:"log"`
	Window  WindowConfig  `mapstructure:"window"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type TilesConfig struct {
	UserAgent          string        `mapstructure:"user_agent"`
	Timeout            time.Duration `mapstructure:"timeout"`
	Workers            int           `mapstructure:"workers"`
	CacheSize          int           `mapstructure:"cache_size"`
	Offline            bool          `mapstructure:"offline"`
	PlaceholderOnError bool          `mapstructure:"placeholder_on_error"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// NewViper returns a viper instance with defaults and GEOMAP_ environment
// overrides, ready for flag bindings.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("tiles.user_agent", "gio-geomap/1.0")
	v.SetDefault("tiles.timeout", 10*time.Second)
	v.SetDefault("tiles.workers", 4)
	v.SetDefault("tiles.cache_size", 512)
	v.SetDefault("tiles.offline", false)
	v.SetDefault("tiles.placeholder_on_error", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 768)
	v.SetDefault("metrics.addr", "")

	// Environment variables: GEOMAP_TILES_OFFLINE → tiles.offline
	v.SetEnvPrefix("GEOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile when given, otherwise an optional geomap.yaml in
// the working directory, and validates the result.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("geomap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings are sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Tiles.Workers <= 0 {
		errs = append(errs, fmt.Sprintf("tiles.workers must be positive, got %d", c.Tiles.Workers))
	}
	if c.Tiles.CacheSize < 0 {
		errs = append(errs, fmt.Sprintf("tiles.cache_size must not be negative, got %d", c.Tiles.CacheSize))
	}
	if c.Tiles.Timeout <= 0 {
		errs = append(errs, "tiles.timeout must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
