package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	Language   string `mapstructure:"language"`
	KeySymbols string `mapstructure:"key_symbols"` // "unicode" or "ascii"
}

// Config holds wv configuration. Values come from config.yaml in the user
// config directory, overridden by WV_* environment variables.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Editor  string        `mapstructure:"editor"`
	Display DisplayConfig `mapstructure:"display"`
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "wv")
	}
	return filepath.Join(".", ".wv")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.SetEnvPrefix("WV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", "")
	v.SetDefault("editor", "")
	v.SetDefault("display.language", "en")
	v.SetDefault("display.key_symbols", "unicode")
	return v
}

// LoadConfig reads the config file if present. A missing file is not an
// error; defaults and environment still apply.
func LoadConfig() (*Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// configKeys lists the settable dot-path keys.
var configKeys = []string{"data_dir", "editor", "display.language", "display.key_symbols"}

// SetConfigValue sets one config value by dot-path key and writes the
// config file, creating the config directory on first use.
func SetConfigValue(key, value string) error {
	valid := false
	for _, k := range configKeys {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown config key: %s\nValid keys: %s", key, strings.Join(configKeys, ", "))
	}
	if key == "display.key_symbols" && value != "unicode" && value != "ascii" {
		return fmt.Errorf("display.key_symbols must be \"unicode\" or \"ascii\"")
	}

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	v.Set(key, value)

	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := v.WriteConfigAs(filepath.Join(dir, "config.yaml")); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigValue reads one config value by dot-path key.
func GetConfigValue(key string) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	switch key {
	case "data_dir":
		return cfg.DataDir, nil
	case "editor":
		return cfg.Editor, nil
	case "display.language":
		return cfg.Display.Language, nil
	case "display.key_symbols":
		return cfg.Display.KeySymbols, nil
	}
	return "", fmt.Errorf("unknown config key: %s\nValid keys: %s", key, strings.Join(configKeys, ", "))
}

// ResolveEditor picks the editor for interactive edits: config value,
// then VISUAL, then EDITOR, then vi.
func ResolveEditor(cfg *Config) string {
	if cfg != nil && cfg.Editor != "" {
		return cfg.Editor
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}
