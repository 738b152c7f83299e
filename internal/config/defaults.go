package config

import (
	"os"
	"path/filepath"
)

// ─────────────────────────────────────────────────────────────────────────────
// File-system layout constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ConfigFileName is the name of the configuration document, both in the
	// installation and in the user configuration directory.
	ConfigFileName = "eva.yml"

	// UDFDirName is the user-defined-function asset tree.
	UDFDirName = "udfs"

	// UploadDirName is created under the configuration directory.
	UploadDirName = "upload"

	// DatasetDirName is created under the default home directory.
	DatasetDirName = "eva_datasets"

	// DefaultDirName is the per-user home of evadb, relative to $HOME.
	DefaultDirName = ".eva"

	// DefaultCatalogURI is written to core.catalog_database_uri when unset.
	// The sqlite path is relative to the process working directory.
	DefaultCatalogURI = "sqlite:///eva_catalog.db"
)

// Accepted core.mode values.
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

// Environment variables.
const (
	// EnvPrefix prefixes every typed-config override, e.g. EVA_CORE_MODE.
	EnvPrefix = "EVA"

	// EnvInstallationDir overrides the installation directory lookup.
	EnvInstallationDir = "EVA_INSTALLATION_DIR"
)

// Typed-config defaults for keys the bootstrapper does not own.
const (
	DefaultApplication   = "eva"
	DefaultMode          = ModeRelease
	DefaultBatchMemSize  = 30000000
	DefaultGPUBatchSize  = 1
	DefaultServerHost    = "0.0.0.0"
	DefaultServerPort    = 8803
	DefaultSocketTimeout = 60
)

// DefaultHomeDir returns ~/.eva.  It is both the default configuration
// directory and the parent of the default datasets directory.
func DefaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// DefaultInstallationDir returns $EVA_INSTALLATION_DIR when set, otherwise
// the directory holding the running executable.
func DefaultInstallationDir() string {
	if dir := os.Getenv(EnvInstallationDir); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// already set are left unchanged.  The three keys the bootstrapper fills
// (datasets_dir, catalog_database_uri, upload_dir) are not touched here; they
// are persisted to eva.yml by the bootstrapper instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Core ──────────────────────────────────────────────────────────────────
	if cfg.Core.Application == "" {
		cfg.Core.Application = DefaultApplication
	}
	if cfg.Core.Mode == "" {
		cfg.Core.Mode = DefaultMode
	}

	// ── Executor ──────────────────────────────────────────────────────────────
	if cfg.Executor.BatchMemSize == 0 {
		cfg.Executor.BatchMemSize = DefaultBatchMemSize
	}
	if cfg.Executor.GPUBatchSize == 0 {
		cfg.Executor.GPUBatchSize = DefaultGPUBatchSize
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.SocketTimeout == 0 {
		cfg.Server.SocketTimeout = DefaultSocketTimeout
	}
}
