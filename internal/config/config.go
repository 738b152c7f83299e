// Package config defines the configuration structures for evadb, the raw
// configuration document the bootstrapper edits, and the viper-based loader
// the rest of the application reads from.
package config

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// CoreConfig holds the settings under the "core" section of eva.yml.
type CoreConfig struct {
	Application        string `mapstructure:"application" yaml:"application" json:"application"`
	Mode               string `mapstructure:"mode" yaml:"mode" json:"mode"` // "debug" | "release"
	DatasetsDir        string `mapstructure:"datasets_dir" yaml:"datasets_dir" json:"datasets_dir"`
	CatalogDatabaseURI string `mapstructure:"catalog_database_uri" yaml:"catalog_database_uri" json:"catalog_database_uri"`
}

// ExecutorConfig holds query executor tunables.
type ExecutorConfig struct {
	BatchMemSize int   `mapstructure:"batch_mem_size" yaml:"batch_mem_size" json:"batch_mem_size"`
	GPUBatchSize int   `mapstructure:"gpu_batch_size" yaml:"gpu_batch_size" json:"gpu_batch_size"`
	GPUIDs       []int `mapstructure:"gpu_ids" yaml:"gpu_ids" json:"gpu_ids"`
}

// StorageConfig holds local storage locations.
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir" json:"upload_dir"`
	IndexDir  string `mapstructure:"index_dir" yaml:"index_dir" json:"index_dir"`
}

// ServerConfig holds the query server listener settings.
type ServerConfig struct {
	Host          string `mapstructure:"host" yaml:"host" json:"host"`
	Port          int    `mapstructure:"port" yaml:"port" json:"port"`
	SocketTimeout int    `mapstructure:"socket_timeout" yaml:"socket_timeout" json:"socket_timeout"` // seconds
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the typed, read-only view of eva.yml consumed after bootstrap.
type Config struct {
	Core     CoreConfig     `mapstructure:"core" yaml:"core" json:"core"`
	Executor ExecutorConfig `mapstructure:"executor" yaml:"executor" json:"executor"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage" json:"storage"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
}

// IsDebug reports whether core.mode selects verbose logging.
func (c *Config) IsDebug() bool {
	return c.Core.Mode == ModeDebug
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// ValidMode reports whether mode is one of the two accepted core.mode values.
func ValidMode(mode string) bool {
	return mode == ModeDebug || mode == ModeRelease
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	if !ValidMode(c.Core.Mode) {
		return fmt.Errorf("config: core.mode %q is invalid; expected debug|release", c.Core.Mode)
	}
	if strings.TrimSpace(c.Core.DatasetsDir) == "" {
		return fmt.Errorf("config: core.datasets_dir is required")
	}
	if strings.TrimSpace(c.Core.CatalogDatabaseURI) == "" {
		return fmt.Errorf("config: core.catalog_database_uri is required")
	}

	if c.Executor.BatchMemSize < 1 {
		return fmt.Errorf("config: executor.batch_mem_size must be ≥ 1, got %d", c.Executor.BatchMemSize)
	}
	if c.Executor.GPUBatchSize < 1 {
		return fmt.Errorf("config: executor.gpu_batch_size must be ≥ 1, got %d", c.Executor.GPUBatchSize)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.SocketTimeout < 0 {
		return fmt.Errorf("config: server.socket_timeout must be ≥ 0, got %d", c.Server.SocketTimeout)
	}

	return nil
}
