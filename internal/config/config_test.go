package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	// Test default values
	assert.Equal(t, "__", cfg.Separator)
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.Equal(t, "", cfg.OutputDir)
	assert.Equal(t, FormatCSV, cfg.Format)
	assert.False(t, cfg.NormalizeColumns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
separator: "."
preview_rows: 25
output_dir: "/tmp/exports"
format: "xlsx"
normalize_columns: true
log:
  level: "debug"
  format: "json"
`

	// Create temp file
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	// Load config
	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)

	// Verify values
	assert.Equal(t, ".", cfg.Separator)
	assert.Equal(t, 25, cfg.PreviewRows)
	assert.Equal(t, "/tmp/exports", cfg.OutputDir)
	assert.Equal(t, FormatXLSX, cfg.Format)
	assert.True(t, cfg.NormalizeColumns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestConfig_LoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	yamlContent := `
preview_rows: 3
`

	tmpFile, err := os.CreateTemp("", "config_partial_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.PreviewRows)
	assert.Equal(t, "__", cfg.Separator)
	assert.Equal(t, FormatCSV, cfg.Format)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	invalidYAML := `
separator: "."
invalid_yaml: [unclosed array
`

	tmpFile, err := os.CreateTemp("", "invalid_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(invalidYAML)
	require.NoError(t, err)
	_ = tmpFile.Close()

	_, err = LoadConfig(tmpFile.Name())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadRejectsUnknownFormat(t *testing.T) {
	yamlContent := `
format: "tsv"
`

	tmpFile, err := os.CreateTemp("", "badformat_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	_, err = LoadConfig(tmpFile.Name())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
	assert.Contains(t, err.Error(), "tsv")
}

func TestConfig_LoadRejectsEmptySeparator(t *testing.T) {
	yamlContent := `
separator: ""
`

	tmpFile, err := os.CreateTemp("", "badsep_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	_, err = LoadConfig(tmpFile.Name())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "separator must not be empty")
}

func TestConfig_FindConfigFile(t *testing.T) {
	// Create temp directory structure
	tmpDir, err := os.MkdirTemp("", "config_search_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	// Create nested directory
	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	err = os.MkdirAll(nestedDir, 0o755)
	require.NoError(t, err)

	// Create config file in project root
	configPath := filepath.Join(tmpDir, "project", ".jsontab.yml")
	configContent := `separator: "::"`
	err = os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	// Change to nested directory
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(nestedDir)
	require.NoError(t, err)

	// Find config file - should find it in parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	// Verify it's the same file by reading content
	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), `separator: "::"`)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	// Create temp directory with no config
	tmpDir, err := os.MkdirTemp("", "no_config_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	// Should not find config file
	foundPath := FindConfigFile()
	assert.Empty(t, foundPath)
}

func TestConfig_ResolveOutputDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{"default is Downloads", "", filepath.Join(home, "Downloads")},
		{"explicit dir untouched", "/tmp/out", "/tmp/out"},
		{"tilde expands to home", "~", home},
		{"tilde slash expands", "~/exports", filepath.Join(home, "exports")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.OutputDir = tt.dir

			dir, err := cfg.ResolveOutputDir()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dir)
		})
	}
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	// Create a config file
	configYAML := `
separator: "."
preview_rows: 5
format: "csv"
normalize_columns: false
`

	tmpFile, err := os.CreateTemp("", "precedence_test_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(configYAML)
	require.NoError(t, err)
	_ = tmpFile.Close()

	// Test loading with CLI overrides
	cfg, err := LoadConfigWithCLI(tmpFile.Name(), "::", 20, FormatXLSX, true)
	require.NoError(t, err)

	// Verify precedence: CLI > config file > defaults
	assert.Equal(t, "::", cfg.Separator)
	assert.Equal(t, 20, cfg.PreviewRows)
	assert.Equal(t, FormatXLSX, cfg.Format)
	assert.True(t, cfg.NormalizeColumns)
}

func TestLoadConfigWithPrecedence_NoOverrides(t *testing.T) {
	// Create a config file
	configYAML := `
separator: "."
preview_rows: 5
format: "xlsx"
`

	tmpFile, err := os.CreateTemp("", "precedence_no_override_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(configYAML)
	require.NoError(t, err)
	_ = tmpFile.Close()

	// Test loading with CLI args left at their defaults
	cfg, err := LoadConfigWithCLI(tmpFile.Name(), "__", 10, FormatCSV, false)
	require.NoError(t, err)

	// Should use config file values
	assert.Equal(t, ".", cfg.Separator)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.Equal(t, FormatXLSX, cfg.Format)
}

func TestLoadConfigWithCLI_NoConfigFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", ".", 3, FormatCSV, false)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Separator)
	assert.Equal(t, 3, cfg.PreviewRows)
	assert.Equal(t, FormatCSV, cfg.Format)
}

func TestLoadConfigWithCLI_InvalidFormat(t *testing.T) {
	_, err := LoadConfigWithCLI("", "__", 10, "tsv", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
