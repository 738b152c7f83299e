// Package bootstrap prepares a user configuration directory for evadb.
//
// Bootstrap is idempotent: on an already-provisioned directory it only opens
// and parses eva.yml, applies core.mode to the log level and returns.  On a
// first run it creates the directory, seeds eva.yml and the udfs/ tree,
// fills the settings that have no usable packaged default
// (core.datasets_dir, core.catalog_database_uri, storage.upload_dir) and
// writes eva.yml back.
//
// There is no locking.  Two processes bootstrapping the same directory at
// the same time may race on the existence checks; run it once at startup.
package bootstrap

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/turtacn/evadb/internal/config"
	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/evadb/pkg/errors"
)

// ErrInvalidMode is wrapped by the error Bootstrap returns when core.mode is
// neither "debug" nor "release".
var ErrInvalidMode = stderrors.New("core.mode must be \"debug\" or \"release\"")

// Keys filled by Bootstrap, in the order they are considered.
const (
	KeyDatasetsDir = "core.datasets_dir"
	KeyCatalogURI  = "core.catalog_database_uri"
	KeyUploadDir   = "storage.upload_dir"
)

// Names reported to the Recorder for provisioned assets.
const (
	AssetConfigDir  = "config_dir"
	AssetConfigFile = "config_file"
	AssetUDFs       = "udfs"
	AssetUploadDir  = "upload_dir"
)

// Recorder receives bootstrap measurements.  The prometheus package provides
// the production implementation.
type Recorder interface {
	Provisioned(asset string)
	DefaultFilled(key string)
	Finished(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Provisioned(string)             {}
func (nopRecorder) DefaultFilled(string)           {}
func (nopRecorder) Finished(string, time.Duration) {}

// Result describes what a Bootstrap call observed and changed.
type Result struct {
	RunID      string
	ConfigDir  string
	ConfigFile string

	// Document is the configuration as it stands after defaults were filled.
	Document config.Document
	Mode     string
	Level    logging.Level

	// Provisioned lists the assets created by this call (see Asset* names).
	Provisioned []string
	// Filled lists the keys written by this call (see Key* names).
	Filled []string
	// Rewritten is true when eva.yml was written back.
	Rewritten bool
}

// Bootstrapper provisions configuration directories.  The zero value is not
// usable; construct one with New.
type Bootstrapper struct {
	fs       afero.Fs
	assets   AssetResolver
	levels   *logging.LevelController
	logger   logging.Logger
	homeDir  string
	recorder Recorder
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithFs sets the filesystem every path is resolved on.  Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(b *Bootstrapper) { b.fs = fs }
}

// WithAssets sets where the default eva.yml comes from.  Without it the
// packaged copy is used when present, else <installationDir>/eva.yml.
func WithAssets(r AssetResolver) Option {
	return func(b *Bootstrapper) { b.assets = r }
}

// WithLevels sets the controller whose level follows core.mode.
func WithLevels(c *logging.LevelController) Option {
	return func(b *Bootstrapper) { b.levels = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Bootstrapper) { b.logger = l }
}

// WithHomeDir sets the directory datasets default to (<homeDir>/eva_datasets).
// Defaults to config.DefaultHomeDir().
func WithHomeDir(dir string) Option {
	return func(b *Bootstrapper) { b.homeDir = dir }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(b *Bootstrapper) { b.recorder = r }
}

// New returns a Bootstrapper with the given options applied.
func New(opts ...Option) *Bootstrapper {
	b := &Bootstrapper{}
	for _, opt := range opts {
		opt(b)
	}
	if b.fs == nil {
		b.fs = afero.NewOsFs()
	}
	if b.levels == nil {
		b.levels = logging.NewLevelController(logging.LevelInfo)
	}
	if b.logger == nil {
		b.logger = logging.Default()
	}
	if b.recorder == nil {
		b.recorder = nopRecorder{}
	}
	return b
}

// Levels returns the controller Bootstrap sets.
func (b *Bootstrapper) Levels() *logging.LevelController {
	return b.levels
}

// LevelForMode maps core.mode to a log level: debug → debug, release → warn.
// Any other value, including a missing or non-string one, wraps
// ErrInvalidMode.
func LevelForMode(mode any) (logging.Level, error) {
	s, _ := mode.(string)
	switch s {
	case config.ModeDebug:
		return logging.LevelDebug, nil
	case config.ModeRelease:
		return logging.LevelWarn, nil
	default:
		return 0, errors.Wrap(ErrInvalidMode, errors.CodeInvalidMode, "invalid core.mode").
			WithDetail(fmt.Sprintf("%v", mode))
	}
}

// Bootstrap provisions configDir from installationDir and returns the loaded
// configuration.  Every failure is returned as is; nothing is retried.
func (b *Bootstrapper) Bootstrap(configDir, installationDir string) (res *Result, err error) {
	start := time.Now()
	res = &Result{
		RunID:      uuid.NewString(),
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, config.ConfigFileName),
	}
	log := b.logger.Named("bootstrap").With(
		logging.String(logging.FieldRunID, res.RunID),
		logging.String("config_dir", configDir),
	)
	defer func() {
		elapsed := time.Since(start)
		outcome := "success"
		if err != nil {
			outcome = string(errors.GetCode(err))
			log.Error("bootstrap failed", logging.Err(err))
		} else {
			log.Debug("bootstrap finished",
				logging.Duration("elapsed", elapsed),
				logging.Bool("rewritten", res.Rewritten))
		}
		b.recorder.Finished(outcome, elapsed)
	}()

	if err := b.provision(res, installationDir, log); err != nil {
		return nil, err
	}

	doc, err := config.LoadDocument(b.fs, res.ConfigFile)
	if err != nil {
		return nil, err
	}
	res.Document = doc

	mode, _ := config.ReadValue(doc, "core", "mode")
	level, err := LevelForMode(mode)
	if err != nil {
		return nil, err
	}
	b.levels.SetLevel(level)
	res.Mode = mode.(string)
	res.Level = level
	log.Debug("setting logging level", logging.Any("level", level))

	if err := b.fillDefaults(res, log); err != nil {
		return nil, err
	}
	if len(res.Filled) > 0 {
		if err := doc.Save(b.fs, res.ConfigFile); err != nil {
			return nil, err
		}
		res.Rewritten = true
		log.Info("configuration updated", logging.Strings("filled", res.Filled))
	}
	return res, nil
}

// provision creates the config directory and seeds eva.yml and udfs/.
func (b *Bootstrapper) provision(res *Result, installationDir string, log logging.Logger) error {
	existed, err := config.Exists(b.fs, res.ConfigDir)
	if err != nil {
		return errors.Wrap(err, errors.CodeDirectoryCreate, "stat config directory").WithDetail(res.ConfigDir)
	}
	if err := b.fs.MkdirAll(res.ConfigDir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeDirectoryCreate, "create config directory").WithDetail(res.ConfigDir)
	}
	if !existed {
		b.provisioned(res, AssetConfigDir)
	}

	present, err := config.Exists(b.fs, res.ConfigFile)
	if err != nil {
		return errors.Wrap(err, errors.CodeAssetCopy, "stat configuration").WithDetail(res.ConfigFile)
	}
	if !present {
		asset := b.defaultConfig(installationDir)
		if !asset.Available() {
			return errors.New(errors.CodeMissingInstallation, "default configuration not found").
				WithDetail(asset.Path)
		}
		if err := copyFile(asset.Fs, asset.Path, b.fs, res.ConfigFile); err != nil {
			return errors.Wrap(err, errors.CodeAssetCopy, "copy default configuration").WithDetail(asset.Path)
		}
		log.Info("default configuration copied",
			logging.String("origin", asset.Origin), logging.String(logging.FieldPath, asset.Path))
		b.provisioned(res, AssetConfigFile)
	}

	udfs := filepath.Join(res.ConfigDir, config.UDFDirName)
	present, err = config.Exists(b.fs, udfs)
	if err != nil {
		return errors.Wrap(err, errors.CodeAssetCopy, "stat udfs").WithDetail(udfs)
	}
	if !present {
		src := filepath.Join(installationDir, config.UDFDirName)
		info, err := b.fs.Stat(src)
		if err != nil || !info.IsDir() {
			return errors.New(errors.CodeMissingInstallation, "default udfs not found").WithDetail(src)
		}
		n, err := copyTree(b.fs, src, udfs)
		if err != nil {
			return errors.Wrap(err, errors.CodeAssetCopy, "copy default udfs").WithDetail(src)
		}
		log.Info("default udfs copied", logging.String(logging.FieldPath, src), logging.Int("files", n))
		b.provisioned(res, AssetUDFs)
	}
	return nil
}

// fillDefaults writes the defaults for unset keys into res.Document.
//
// The upload directory is recomputed whenever either of the other two keys
// was unset, even if storage.upload_dir already holds a value.
// TODO: decide whether a user-set storage.upload_dir should survive a partial
// fill; keep the recompute until that is settled.
func (b *Bootstrapper) fillDefaults(res *Result, log logging.Logger) error {
	doc := res.Document
	datasets, _ := config.ReadValue(doc, "core", "datasets_dir")
	catalogURI, _ := config.ReadValue(doc, "core", "catalog_database_uri")

	if !config.IsEmpty(datasets) && !config.IsEmpty(catalogURI) {
		return nil
	}

	if config.IsEmpty(datasets) {
		home, err := b.home()
		if err != nil {
			return err
		}
		dir, err := filepath.Abs(filepath.Join(home, config.DatasetDirName))
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "resolve datasets directory")
		}
		config.UpdateValue(doc, "core", "datasets_dir", dir)
		b.filled(res, KeyDatasetsDir)
	}
	if config.IsEmpty(catalogURI) {
		config.UpdateValue(doc, "core", "catalog_database_uri", config.DefaultCatalogURI)
		b.filled(res, KeyCatalogURI)
	}

	upload, err := filepath.Abs(filepath.Join(res.ConfigDir, config.UploadDirName))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "resolve upload directory")
	}
	config.UpdateValue(doc, "storage", "upload_dir", upload)
	b.filled(res, KeyUploadDir)

	existed, err := config.Exists(b.fs, upload)
	if err != nil {
		return errors.Wrap(err, errors.CodeDirectoryCreate, "stat upload directory").WithDetail(upload)
	}
	if err := b.fs.MkdirAll(upload, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeDirectoryCreate, "create upload directory").WithDetail(upload)
	}
	if !existed {
		b.provisioned(res, AssetUploadDir)
		log.Debug("upload directory created", logging.String(logging.FieldPath, upload))
	}
	return nil
}

func (b *Bootstrapper) defaultConfig(installationDir string) Asset {
	if b.assets != nil {
		return b.assets.DefaultConfig()
	}
	return locatingResolver{installationDir: installationDir}.DefaultConfig()
}

func (b *Bootstrapper) home() (string, error) {
	if b.homeDir != "" {
		return b.homeDir, nil
	}
	home, err := config.DefaultHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "resolve home directory")
	}
	return home, nil
}

func (b *Bootstrapper) provisioned(res *Result, asset string) {
	res.Provisioned = append(res.Provisioned, asset)
	b.recorder.Provisioned(asset)
}

func (b *Bootstrapper) filled(res *Result, key string) {
	res.Filled = append(res.Filled, key)
	b.recorder.DefaultFilled(key)
}
