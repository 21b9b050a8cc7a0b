package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	OpenAI        OpenAIConfig   `toml:"openai"`
	Calendar      CalendarConfig `toml:"calendar"`
	Notifications NotifyConfig   `toml:"notifications"`
}

type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type CalendarConfig struct {
	App                  string `toml:"app"`  // "calendar", "fantastical" or "ics"
	Name                 string `toml:"name"` // target calendar in Apple Calendar
	ScriptTimeoutSeconds int    `toml:"script_timeout_seconds"`
}

func (c CalendarConfig) ScriptTimeout() time.Duration {
	return time.Duration(c.ScriptTimeoutSeconds) * time.Second
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

// The three single-value files the Alfred workflow keeps in its data
// directory, alongside the TOML config.
const (
	KeyFileName  = ".openai_key"
	AppFileName  = ".calendar_app"
	NameFileName = ".calendar_name"
)

func DefaultConfig() Config {
	return Config{
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o",
			TimeoutSeconds: 30,
		},
		Calendar: CalendarConfig{
			App:                  "calendar",
			ScriptTimeoutSeconds: 10,
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "focal"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DataDir is where the key and preference files live. Alfred points it at
// the workflow's data directory; outside Alfred it is the config dir.
func DataDir() (string, error) {
	if dir := os.Getenv("alfred_workflow_data"); dir != "" {
		return dir, nil
	}
	return ConfigDir()
}

func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	// Optional .env next to the config; missing is fine.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := DefaultConfig()
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	loadDataFiles(&cfg, dataDir)
	applyEnvOverrides(&cfg)

	cfg.Calendar.App = strings.ToLower(strings.TrimSpace(cfg.Calendar.App))
	return &cfg, nil
}

func loadDataFiles(cfg *Config, dir string) {
	if v := readFileWord(filepath.Join(dir, KeyFileName)); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := readFileWord(filepath.Join(dir, AppFileName)); v != "" {
		cfg.Calendar.App = v
	}
	if v := readFileWord(filepath.Join(dir, NameFileName)); v != "" {
		cfg.Calendar.Name = v
	}
}

func readFileWord(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("FOCAL_CALENDAR_APP"); v != "" {
		cfg.Calendar.App = v
	}
	if v := os.Getenv("FOCAL_CALENDAR_NAME"); v != "" {
		cfg.Calendar.Name = v
	}
}

// ValidateAPIKey rejects missing or obviously malformed keys before any
// network call is made.
func ValidateAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("openai API key not configured: put it in %s under the workflow data directory or set OPENAI_API_KEY", KeyFileName)
	}
	if !strings.HasPrefix(key, "sk-") || len(key) < 20 {
		return fmt.Errorf("openai API key looks invalid (keys start with \"sk-\" and are at least 20 characters)")
	}
	return nil
}
