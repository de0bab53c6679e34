// Package config reads and writes the user-level CLI configuration at
// ~/.retag/config.yaml, with environment overrides (RETAG_*).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/retaglabs/retag/internal/branding"
	"github.com/retaglabs/retag/internal/git"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	// KeyRemote is the remote used by rename, bump, and tags commands.
	KeyRemote = "remote"
	// KeyBumpLevel is the default version component bumped by `bump`.
	KeyBumpLevel = "bump.level"
	// KeyUpdateCheck toggles the startup update banner ("true"/"false").
	KeyUpdateCheck = "update.check"
)

// knownKeys maps each settable key to a short description, shown by
// `config list` and used to reject typos in `config set`.
var knownKeys = map[string]string{
	KeyRemote:      "remote pushed to by rename, bump, and tags fetch (default origin)",
	KeyBumpLevel:   "default bump level: major, minor, or patch (default patch)",
	KeyUpdateCheck: "check for new releases at startup (default true)",
}

// Dir returns the path to the config directory (~/.retag/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.retag/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// RETAG_REMOTE=upstream overrides the remote key, and so on.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
// Unknown keys are rejected.
func Set(key, value string) error {
	if _, ok := knownKeys[key]; !ok {
		return fmt.Errorf("unknown config key %q: known keys are %s", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CheckFile reports whether the config file exists and parses. A
// missing file is (false, nil): defaults apply.
func CheckFile() (bool, error) {
	if _, err := os.Stat(FilePath()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", FilePath(), err)
	}
	v := viper.New()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil {
		return true, fmt.Errorf("parsing %s: %w", FilePath(), err)
	}
	return true, nil
}

// Keys returns the known configuration keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe returns the description of a known key, or "".
func Describe(key string) string {
	return knownKeys[key]
}

// Remote returns the configured remote, defaulting to origin.
func Remote() string {
	if v := Get(KeyRemote); v != "" {
		return v
	}
	return git.DefaultRemote
}

// BumpLevel returns the configured default bump level, defaulting to patch.
func BumpLevel() string {
	if v := Get(KeyBumpLevel); v != "" {
		return v
	}
	return "patch"
}

// UpdateCheckEnabled reports whether the startup update check runs.
func UpdateCheckEnabled() bool {
	return Get(KeyUpdateCheck) != "false"
}
