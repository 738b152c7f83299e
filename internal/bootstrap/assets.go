package bootstrap

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/turtacn/evadb/assets"
	"github.com/turtacn/evadb/internal/config"
)

// Asset locates a read-only default configuration document on a filesystem.
type Asset struct {
	Fs   afero.Fs
	Path string
	// Origin names the resolver that produced the asset, for logs.
	Origin string
}

// Available reports whether the asset can be stat'ed.
func (a Asset) Available() bool {
	if a.Fs == nil {
		return false
	}
	ok, err := config.Exists(a.Fs, a.Path)
	return err == nil && ok
}

// AssetResolver picks where the default eva.yml is copied from.
type AssetResolver interface {
	DefaultConfig() Asset
}

// PackagedResolver serves the eva.yml embedded in the binary.
type PackagedResolver struct {
	// FS overrides the embedded files; nil means assets.Files.
	FS fs.FS
}

// DefaultConfig implements AssetResolver.
func (r PackagedResolver) DefaultConfig() Asset {
	fsys := r.FS
	if fsys == nil {
		fsys = assets.Files
	}
	return Asset{
		Fs:     afero.FromIOFS{FS: fsys},
		Path:   assets.ConfigFile,
		Origin: "packaged",
	}
}

// LocalResolver serves <InstallationDir>/eva.yml, for development trees where
// the binary was built without the packaged asset or the packaged copy should
// be bypassed.
type LocalResolver struct {
	InstallationDir string
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// DefaultConfig implements AssetResolver.
func (r LocalResolver) DefaultConfig() Asset {
	fsys := r.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return Asset{
		Fs:     fsys,
		Path:   filepath.Join(r.InstallationDir, config.ConfigFileName),
		Origin: "local",
	}
}

// LocateDefaultConfig returns the packaged default configuration when the
// binary carries one, otherwise the copy under installationDir.  A missing
// local file is not reported here; it surfaces when the asset is opened.
func LocateDefaultConfig(installationDir string) Asset {
	if packaged := (PackagedResolver{}).DefaultConfig(); packaged.Available() {
		return packaged
	}
	return LocalResolver{InstallationDir: installationDir}.DefaultConfig()
}

type locatingResolver struct {
	installationDir string
}

func (r locatingResolver) DefaultConfig() Asset {
	return LocateDefaultConfig(r.installationDir)
}
