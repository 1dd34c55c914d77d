// Package config holds application settings, the on-disk directory layout
// and API key storage.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const AppName = "auto-subs"

// keyring service under which provider API keys are stored
const keyringService = AppName

// Settings are the user-tunable defaults, loaded from settings.yaml merged
// over the built-in values.
type Settings struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	Language        string `yaml:"language"`
	MaxChars        int    `yaml:"max_chars"`
	BreakChars      string `yaml:"break_chars"`
	StyleThrottleMS int    `yaml:"style_throttle_ms"`
}

func DefaultSettings() Settings {
	return Settings{
		Provider:        "openai",
		Model:           "",
		Language:        "",
		MaxChars:        10,
		BreakChars:      ".,!?",
		StyleThrottleMS: 1000,
	}
}

// LoadSettings reads a YAML settings file over the defaults. A missing file
// yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes the settings as YAML.
func SaveSettings(path string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save settings to %s: %w", path, err)
	}
	return nil
}

// Dirs is the application's on-disk layout.
type Dirs struct {
	Config   string // settings.yaml lives here
	Styles   string // style presets
	Projects string // default project location
	Scratch  string // extraction and render scratch space
}

// DefaultDirs resolves the layout from the OS user directories.
func DefaultDirs() (Dirs, error) {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return Dirs{}, fmt.Errorf("failed to resolve user config directory: %w", err)
	}

	configDir := filepath.Join(configBase, AppName)
	return Dirs{
		Config:   configDir,
		Styles:   filepath.Join(configDir, "styles"),
		Projects: filepath.Join(configDir, "projects"),
		Scratch:  filepath.Join(os.TempDir(), AppName),
	}, nil
}

// Ensure creates every directory of the layout.
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Config, d.Styles, d.Projects, d.Scratch} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SettingsPath returns the settings file location.
func (d Dirs) SettingsPath() string {
	return filepath.Join(d.Config, "settings.yaml")
}

// APIKeyFromKeyring fetches a provider's API key from the OS keyring.
func APIKeyFromKeyring(provider string) (string, error) {
	key, err := keyring.Get(keyringService, provider)
	if err != nil {
		return "", fmt.Errorf("no API key stored for %s: %w", provider, err)
	}
	return key, nil
}

// StoreAPIKey saves a provider's API key in the OS keyring.
func StoreAPIKey(provider, key string) error {
	if err := keyring.Set(keyringService, provider, key); err != nil {
		return fmt.Errorf("failed to store API key for %s: %w", provider, err)
	}
	return nil
}
