package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Sentinel errors returned (wrapped) by Load.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config file could not be parsed")
	ErrConfigValidation   = errors.New("config validation failed")
)

// newViper builds a pre-configured Viper instance: YAML file type, EVA_ env
// prefix, automatic env binding, and a key replacer that maps "." → "_" so
// that nested keys like "core.mode" resolve to "EVA_CORE_MODE".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges any EVA_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  Call it after bootstrap so that the keys the bootstrapper fills are
// present.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %w: %s", ErrConfigFileNotFound, configPath)
		}
		return nil, fmt.Errorf("config: stat %q: %w", configPath, err)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: %w: %s: %v", ErrConfigParseError, configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file is written.  A change that fails to parse or validate is
// reported to onError (when non-nil) and onChange is not called.
//
// Watch is non-blocking; viper runs the fsnotify watcher in a background
// goroutine for the lifetime of the process.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: %w: %s: %v", ErrConfigParseError, configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
