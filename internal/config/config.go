package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/insightdelivered/order-scanner/internal/extractor"
	"github.com/insightdelivered/order-scanner/internal/parser"
)

// EnvPrefix prefixes every environment variable, e.g. ORDERSCAN_SCAN_WORKERS.
const EnvPrefix = "ORDERSCAN"

// Config holds all configuration for the application
type Config struct {
	Scan       ScanConfig        `mapstructure:"scan"`
	Server     ServerConfig      `mapstructure:"server"`
	Extractor  ExtractorConfig   `mapstructure:"extractor"`
	Log        LogConfig         `mapstructure:"log"`
	Thresholds parser.Thresholds `mapstructure:"thresholds"`
}

// ScanConfig holds batch scan configuration
type ScanConfig struct {
	Folder           string `mapstructure:"folder"`
	Workers          int    `mapstructure:"workers"`
	Output           string `mapstructure:"output"`
	Format           string `mapstructure:"format"` // "csv" or "xlsx"
	IncludeUnmatched bool   `mapstructure:"include_unmatched"`
	SkipHidden       bool   `mapstructure:"skip_hidden"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
}

// ExtractorConfig holds PDF text extraction configuration
type ExtractorConfig struct {
	OCR          bool   `mapstructure:"ocr"`
	OCRLanguages string `mapstructure:"ocr_languages"`
	MinTextLen   int    `mapstructure:"min_text_len"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load reads configuration from path (optional), the environment and defaults.
// With an empty path, config.yaml is looked up in the working directory and
// ./config.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) error {
	v.SetDefault("scan.folder", "")
	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.output", "")
	v.SetDefault("scan.format", "xlsx")
	v.SetDefault("scan.include_unmatched", false)
	v.SetDefault("scan.skip_hidden", true)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.body_limit_mb", 32)

	ex := extractor.DefaultConfig()
	v.SetDefault("extractor.ocr", ex.OCR)
	v.SetDefault("extractor.ocr_languages", ex.OCRLanguages)
	v.SetDefault("extractor.min_text_len", ex.MinTextLen)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Every threshold gets a default so it can be overridden from the
	// environment alone.
	var thresholds map[string]any
	if err := mapstructure.Decode(parser.DefaultThresholds(), &thresholds); err != nil {
		return fmt.Errorf("encode default thresholds: %w", err)
	}
	for key, value := range thresholds {
		v.SetDefault("thresholds."+key, value)
	}
	return nil
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Scan.Workers < 1 {
		return fmt.Errorf("scan workers must be at least 1, got %d", config.Scan.Workers)
	}

	switch strings.ToLower(config.Scan.Format) {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("scan format must be 'csv' or 'xlsx', got: %s", config.Scan.Format)
	}

	if config.Server.BodyLimitMB < 1 {
		return fmt.Errorf("server body limit must be at least 1 MB, got %d", config.Server.BodyLimitMB)
	}

	switch strings.ToLower(config.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	if err := config.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	return nil
}

// ExtractorSettings maps the extractor section onto extractor.Config.
func (c *Config) ExtractorSettings() extractor.Config {
	return extractor.Config{
		OCR:          c.Extractor.OCR,
		OCRLanguages: c.Extractor.OCRLanguages,
		MinTextLen:   c.Extractor.MinTextLen,
	}
}
