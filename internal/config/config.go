// Package config loads docx-rebrand settings from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yuanying/docx-rebrand/internal/rebrand"
)

// Config holds the full docx-rebrand configuration.
type Config struct {
	Listen      string      `yaml:"listen"`
	MaxUploadMB int         `yaml:"max_upload_mb"`
	Jobs        int         `yaml:"jobs"`
	Brand       BrandConfig `yaml:"brand"`
	Logo        LogoConfig  `yaml:"logo"`
	Log         LogConfig   `yaml:"log"`
}

// BrandConfig holds the request-level defaults.
type BrandConfig struct {
	Original     string `yaml:"original"`
	FooterCenter string `yaml:"footer_center"`
	FooterRight  string `yaml:"footer_right"`
	FileName     string `yaml:"file_name"`
}

// LogoConfig controls logo normalization.
type LogoConfig struct {
	MaxWidth int `yaml:"max_width"` // 0 keeps logo bytes verbatim
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      ":8080",
		MaxUploadMB: 50,
		Jobs:        runtime.NumCPU(),
		Brand: BrandConfig{
			Original:     rebrand.DefaultOriginalBrand,
			FooterCenter: rebrand.DefaultFooterCenter,
			FooterRight:  rebrand.DefaultFooterRight,
			FileName:     rebrand.DefaultFileName,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a YAML config file merged over DefaultConfig.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0")
	}
	if c.Logo.MaxWidth < 0 {
		return fmt.Errorf("logo.max_width must be >= 0")
	}
	if strings.TrimSpace(c.Brand.Original) == "" {
		return fmt.Errorf("brand.original is required")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unsupported format %q (use text or json)", c.Log.Format)
	}
	return nil
}

// MaxUploadBytes returns the request body limit in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }

// RebrandOptions converts the configuration into rebrand.Options.
func (c *Config) RebrandOptions(logger *slog.Logger) rebrand.Options {
	return rebrand.Options{
		OriginalBrand: c.Brand.Original,
		FooterCenter:  c.Brand.FooterCenter,
		FooterRight:   c.Brand.FooterRight,
		FileName:      c.Brand.FileName,
		LogoMaxWidth:  c.Logo.MaxWidth,
		Logger:        logger,
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}
