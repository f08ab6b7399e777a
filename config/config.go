// Package config loads the application configuration from an optional
// movingmap.yaml plus MOVINGMAP_* environment overrides.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// TileSource names one tile directory in priority order.
type TileSource struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

type Config struct {
	WindowWidth  int    `mapstructure:"window_width"`
	WindowHeight int    `mapstructure:"window_height"`
	LogLevel     string `mapstructure:"log_level"`
	LogDir       string `mapstructure:"log_dir"`

	// TileSources are tried first to last; the built-in grid provider
	// always backs the chain.
	TileSources []TileSource `mapstructure:"tile_sources"`

	StartLevel int     `mapstructure:"start_level"`
	StartLat   float64 `mapstructure:"start_lat"`
	StartLng   float64 `mapstructure:"start_lng"`

	// TelemetryPort is the UDP port X-Plane sends DATA* packets to.
	TelemetryPort int `mapstructure:"telemetry_port"`
}

// Load reads movingmap.yaml from dir (or the working directory when dir is
// empty). A missing file is fine; defaults cover every key.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("movingmap")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("movingmap")
	v.AutomaticEnv()

	v.SetDefault("window_width", 800)
	v.SetDefault("window_height", 600)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "")
	v.SetDefault("start_level", 8)
	v.SetDefault("start_lat", 48.8566)
	v.SetDefault("start_lng", 2.3522)
	v.SetDefault("telemetry_port", 49003)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.StartLevel < 0 || cfg.StartLevel > 15 {
		return nil, fmt.Errorf("start_level %d out of range 0..15", cfg.StartLevel)
	}
	return &cfg, nil
}
