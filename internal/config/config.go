package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"dario.cat/mergo"
	"github.com/tidwall/jsonc"
)

const appName = "ask-user"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Dialog: DialogConfig{
			Prompt:       "Please enter your content:",
			Countdown:    60,
			Placeholder:  "Type your content here...",
			SubmitLabel:  "Submit",
			CancelLabel:  "Cancel",
			Warning:      "Please enter some content before submitting!",
			CancelNotice: "user cancelled the input",
			AltScreen:    true,
			Width:        80,
			Height:       10,
		},
		History: HistoryConfig{
			Enabled:      true,
			Path:         defaultHistoryPath(),
			StoreContent: true,
		},
	}
}

// Load reads the user config file (if any) over the defaults and applies
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		userMap, err := loadJSONC(path)
		switch {
		case err == nil:
			if err := mergeIntoConfig(&cfg, userMap); err != nil {
				return nil, fmt.Errorf("merging %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the user config file location, or "" when there is no config dir.
func Path() string {
	if p := os.Getenv("ASK_USER_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.jsonc")
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "history.jsonl")
}

// loadJSONC reads a JSONC file and returns it as a map.
func loadJSONC(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// mergeIntoConfig round-trips the config through a map so that src only
// overrides the keys it actually sets.
func mergeIntoConfig(cfg *Config, src map[string]any) error {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var dst map[string]any
	if err := json.Unmarshal(cfgBytes, &dst); err != nil {
		return err
	}

	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return err
	}

	merged, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, cfg)
}

// applyEnvOverrides applies ASK_USER_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ASK_USER_COUNTDOWN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ASK_USER_COUNTDOWN %q: %w", v, err)
		}
		cfg.Dialog.Countdown = n
	}
	if v := os.Getenv("ASK_USER_HISTORY"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ASK_USER_HISTORY %q: %w", v, err)
		}
		cfg.History.Enabled = enabled
	}
	if v := os.Getenv("ASK_USER_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("ASK_USER_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}
