package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by the format option.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config represents the complete configuration for jsontab
type Config struct {
	Separator        string    `yaml:"separator"`
	PreviewRows      int       `yaml:"preview_rows"`
	OutputDir        string    `yaml:"output_dir"`
	Format           string    `yaml:"format"`
	NormalizeColumns bool      `yaml:"normalize_columns"`
	Log              LogConfig `yaml:"log"`
}

// LogConfig controls diagnostic logging on stderr
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Separator:        "__",
		PreviewRows:      10,
		OutputDir:        "",
		Format:           FormatCSV,
		NormalizeColumns: false,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontab.yml", ".jsontab.yaml", "jsontab.yml", "jsontab.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// validate rejects values no component can work with
func (c *Config) validate() error {
	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if c.Format != FormatCSV && c.Format != FormatXLSX {
		return fmt.Errorf("unknown format %q (expected %q or %q)", c.Format, FormatCSV, FormatXLSX)
	}
	return nil
}

// ResolveOutputDir returns the directory used for auto-named output files:
// the configured output_dir (a leading ~ is expanded) or the user's
// Downloads folder.
func (c *Config) ResolveOutputDir() (string, error) {
	dir := c.OutputDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		return filepath.Join(home, "Downloads"), nil
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir[1:], "/"))
	}
	return dir, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// CLI values are applied only when they differ from the flag defaults, so
// config file values are used when CLI args are left alone.
func LoadConfigWithCLI(configPath, cliSeparator string, cliRows int, cliFormat string, cliNormalize bool) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliSeparator != "" && cliSeparator != "__" {
		cfg.Separator = cliSeparator
	}
	if cliRows != 10 {
		cfg.PreviewRows = cliRows
	}
	if cliFormat != "" && cliFormat != FormatCSV {
		cfg.Format = cliFormat
	}
	// A false flag can't be told apart from an unset one, so only an
	// explicit true overrides the config file.
	if cliNormalize {
		cfg.NormalizeColumns = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
