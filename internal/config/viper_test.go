package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"BANK_LOG_LEVEL", "BANK_LOG_FORMAT", "BANK_CSV_DELIMITER",
		"BANK_CATEGORIES_FILE", "BANK_AI_ENABLED", "BANK_AI_MODEL",
		"BANK_AI_TIMEOUT_SECONDS", "BANK_REPORT_FORMAT",
		"BANK_EXTRACT_ROW_TOLERANCE", "GEMINI_API_KEY",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
	require.NoError(t, os.Chdir(dir))
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "", config.Categories.File)
	assert.Equal(t, 3.0, config.Extract.RowTolerance)
	assert.Equal(t, 12.0, config.Extract.GapThreshold)
	assert.Equal(t, 3.0, config.Extract.SnapTolerance)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Model)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
	assert.Equal(t, "xlsx", config.Report.Format)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("BANK_LOG_LEVEL", "debug")
	t.Setenv("BANK_LOG_FORMAT", "json")
	t.Setenv("BANK_CSV_DELIMITER", ";")
	t.Setenv("BANK_AI_ENABLED", "true")
	t.Setenv("BANK_AI_MODEL", "gemini-1.5-pro")
	t.Setenv("BANK_REPORT_FORMAT", "csv")
	t.Setenv("GEMINI_API_KEY", "test-api-key")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, "csv", config.Report.Format)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
categories:
  file: "my-categories.json"
extract:
  gap_threshold: 20.0
report:
  format: "csv"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "my-categories.json", config.Categories.File)
	assert.Equal(t, 20.0, config.Extract.GapThreshold)
	assert.Equal(t, "csv", config.Report.Format)
	// Untouched values keep their defaults.
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, 3.0, config.Extract.RowTolerance)
}

func TestInitializeConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{name: "Invalid log level", envVar: "BANK_LOG_LEVEL", value: "verbose"},
		{name: "Invalid log format", envVar: "BANK_LOG_FORMAT", value: "xml"},
		{name: "Multi-character delimiter", envVar: "BANK_CSV_DELIMITER", value: ";;"},
		{name: "Invalid report format", envVar: "BANK_REPORT_FORMAT", value: "pdf"},
		{name: "Negative tolerance", envVar: "BANK_EXTRACT_ROW_TOLERANCE", value: "-1"},
		{name: "AI enabled without key", envVar: "BANK_AI_ENABLED", value: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnvVars(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.envVar, tt.value)

			_, err := InitializeConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	logger := ConfigureLoggingFromConfig(config)
	assert.NotNil(t, logger)
}
