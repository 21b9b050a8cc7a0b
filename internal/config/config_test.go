package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "calendar", cfg.Calendar.App)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, 30, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, 10, cfg.Calendar.ScriptTimeoutSeconds)
}

func TestTOMLRoundTrip(t *testing.T) {
	src := `
[openai]
model = "gpt-4o-mini"
timeout_seconds = 15

[calendar]
app = "fantastical"
name = "Work"

[notifications]
enabled = false
`
	cfg := DefaultConfig()
	require.NoError(t, toml.Unmarshal([]byte(src), &cfg))

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 15, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, "fantastical", cfg.Calendar.App)
	assert.Equal(t, "Work", cfg.Calendar.Name)
	assert.False(t, cfg.Notifications.Enabled)
}

func TestLoadDataFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte("sk-test-key-1234567890\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppFileName), []byte("fantastical\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, NameFileName), []byte("Work\n"), 0644))

	cfg := DefaultConfig()
	loadDataFiles(&cfg, dir)

	assert.Equal(t, "sk-test-key-1234567890", cfg.OpenAI.APIKey)
	assert.Equal(t, "fantastical", cfg.Calendar.App)
	assert.Equal(t, "Work", cfg.Calendar.Name)
}

func TestLoadDataFiles_MissingFilesKeepDefaults(t *testing.T) {
	cfg := DefaultConfig()
	loadDataFiles(&cfg, t.TempDir())

	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, "calendar", cfg.Calendar.App)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env-key-1234567890")
	t.Setenv("FOCAL_CALENDAR_APP", "ics")

	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-file-key-1234567890"
	applyEnvOverrides(&cfg)

	assert.Equal(t, "sk-env-key-1234567890", cfg.OpenAI.APIKey)
	assert.Equal(t, "ics", cfg.Calendar.App)
}

func TestDataDir_AlfredOverride(t *testing.T) {
	t.Setenv("alfred_workflow_data", "/tmp/focal-workflow-data")
	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/focal-workflow-data", dir)
}

func TestValidateAPIKey(t *testing.T) {
	assert.NoError(t, ValidateAPIKey("sk-proj-1234567890abcdef"))

	err := ValidateAPIKey("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")

	for _, bad := range []string{"pk-1234567890abcdefghij", "sk-short"} {
		assert.Error(t, ValidateAPIKey(bad), bad)
	}
}
