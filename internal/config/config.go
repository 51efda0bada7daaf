// Package config holds the server's runtime settings.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config is filled from flags, environment or a JSON file. Zero values are
// replaced by the defaults in the struct tags.
type Config struct {
	LogLevel  string `default:"info" validate:"oneof=trace debug info warn error disabled" json:"logLevel"`
	LogFormat string `default:"console" validate:"oneof=console json" json:"logFormat"`

	// Initial map view.
	CenterLat float64 `default:"20" validate:"gte=-90,lte=90" json:"centerLat"`
	CenterLon float64 `default:"0" validate:"gte=-180,lte=180" json:"centerLon"`
	Zoom      int     `default:"2" validate:"gte=0,lte=22" json:"zoom"`

	// Histogram bins used when a request does not name any.
	Bins int `default:"50" validate:"gte=1" json:"bins"`

	// Longest side of rendered previews in pixels.
	PreviewMaxSize int `default:"1024" validate:"gte=16,lte=8192" json:"previewMaxSize"`

	// Relative map_save_html paths are resolved against OutputDir.
	OutputDir string `default:"." validate:"required" json:"outputDir"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	// Only fails on malformed tags.
	if err := defaults.Set(c); err != nil {
		panic(err)
	}
	return c
}

// Load reads a JSON config file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Logger builds a zerolog logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
