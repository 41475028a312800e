// Package config loads docbatch settings through viper: defaults, then a
// YAML config file, then DOCBATCH_* environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/capability"
	"github.com/AnyUserName/docbatch/internal/templates"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCBATCH"

// Config is the resolved configuration.
type Config struct {
	LogLevel       string               `mapstructure:"log_level"`
	EdgeThreshold  int                  `mapstructure:"edge_threshold"`
	JPEGQuality    int                  `mapstructure:"jpeg_quality"`
	RasterDPI      int                  `mapstructure:"raster_dpi"`
	ContrastFactor float64              `mapstructure:"contrast_factor"`
	Tools          capability.Tools     `mapstructure:"tools"`
	Templates      []templates.Template `mapstructure:"templates"`
	Serve          Serve                `mapstructure:"serve"`
	MetricsFile    string               `mapstructure:"metrics_file"`
}

// Serve configures the HTTP front door.
type Serve struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	d := batch.DefaultOptions()
	v.SetDefault("log_level", "info")
	v.SetDefault("edge_threshold", d.EdgeThreshold)
	v.SetDefault("jpeg_quality", d.JPEGQuality)
	v.SetDefault("raster_dpi", d.RasterDPI)
	v.SetDefault("contrast_factor", d.ContrastFactor)
	v.SetDefault("tools.pdftoppm", "pdftoppm")
	v.SetDefault("tools.rsvg_convert", "rsvg-convert")
	v.SetDefault("serve.addr", "127.0.0.1:8089")
	v.SetDefault("metrics_file", "")
}

// Init prepares v to read cfgFile, or docbatch.yaml from the working
// directory or ~/.config/docbatch when cfgFile is empty. A missing
// default config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docbatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "docbatch"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.EdgeThreshold < 0 || c.EdgeThreshold > 255:
		return fmt.Errorf("edge_threshold %d: want 0..255", c.EdgeThreshold)
	case c.JPEGQuality < 1 || c.JPEGQuality > 100:
		return fmt.Errorf("jpeg_quality %d: want 1..100", c.JPEGQuality)
	case c.RasterDPI < 1:
		return fmt.Errorf("raster_dpi %d: want a positive value", c.RasterDPI)
	case c.ContrastFactor <= 0:
		return fmt.Errorf("contrast_factor %g: want a positive value", c.ContrastFactor)
	}
	_, err := c.TemplateTable()
	return err
}

// Options converts the tunables for operations.
func (c *Config) Options() batch.Options {
	return batch.Options{
		EdgeThreshold:  c.EdgeThreshold,
		JPEGQuality:    c.JPEGQuality,
		RasterDPI:      c.RasterDPI,
		ContrastFactor: c.ContrastFactor,
	}
}

// TemplateTable is the built-in template table extended by the
// configured templates. A configured size replaces the built-in one.
func (c *Config) TemplateTable() (*templates.Table, error) {
	t := templates.Default()
	for _, tpl := range c.Templates {
		if err := t.Add(tpl); err != nil {
			return nil, fmt.Errorf("templates: %w", err)
		}
	}
	return t, nil
}
