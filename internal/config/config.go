// Package config loads azimage settings from defaults, an optional YAML
// file, and AZIMAGE_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/azimage/internal/pagination"
)

// Default values used when neither the config file nor the environment set them.
const (
	DefaultRegion       = "eastus"
	DefaultPageSize     = 20
	DefaultReportPrefix = "azure-vm-image"
	DefaultMaxVersions  = 10
	DefaultAzPath       = "az"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "console"
)

// Environment variable names.
const (
	EnvHome      = "AZIMAGE_HOME"
	EnvRegion    = "AZIMAGE_REGION"
	EnvPageSize  = "AZIMAGE_PAGE_SIZE"
	EnvLogLevel  = "AZIMAGE_LOG_LEVEL"
	EnvLogFormat = "AZIMAGE_LOG_FORMAT"
)

// Config is the full azimage configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Report   ReportConfig   `yaml:"report"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultsConfig holds the default values of the browse flags.
type DefaultsConfig struct {
	Region          string `yaml:"region"`
	PageSize        int    `yaml:"page_size"`
	MicrosoftOnly   bool   `yaml:"microsoft_only"`
	PublisherSearch string `yaml:"publisher_search"`
}

// ReportConfig controls where and how the Markdown report is written.
type ReportConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Prefix      string `yaml:"prefix"`
	MaxVersions int    `yaml:"max_versions"`
}

// CatalogConfig controls the az CLI invocation.
type CatalogConfig struct {
	AzPath  string        `yaml:"az_path"`
	Timeout time.Duration `yaml:"timeout"` // 0 means no timeout
}

// New returns a Config populated with defaults only.
func New() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Region:   DefaultRegion,
			PageSize: DefaultPageSize,
		},
		Report: ReportConfig{
			OutputDir:   ".",
			Prefix:      DefaultReportPrefix,
			MaxVersions: DefaultMaxVersions,
		},
		Catalog: CatalogConfig{
			AzPath: DefaultAzPath,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path, and the
// environment. An empty path means the default config file location; a
// missing default file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, unmarshalErr)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if envErr := cfg.applyEnv(os.LookupEnv); envErr != nil {
		return nil, envErr
	}
	return cfg, nil
}

// applyEnv overrides fields from AZIMAGE_* variables.
func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(EnvRegion); ok && v != "" {
		c.Defaults.Region = v
	}
	if v, ok := lookupEnv(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPageSize, v, err)
		}
		c.Defaults.PageSize = n
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks values that would break the browse workflow.
func (c *Config) Validate() error {
	if err := pagination.ValidatePageSize(c.Defaults.PageSize); err != nil {
		return fmt.Errorf("defaults.page_size: %w", err)
	}
	if c.Defaults.Region == "" {
		return errors.New("region must not be empty")
	}
	if c.Report.MaxVersions < 1 {
		return fmt.Errorf("report.max_versions must be >= 1, got %d", c.Report.MaxVersions)
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must be >= 0, got %s", c.Catalog.Timeout)
	}
	return nil
}
