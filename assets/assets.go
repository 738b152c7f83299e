// Package assets ships the default eva.yml inside the binary.  The directory
// also has the on-disk installation layout (eva.yml, udfs/), so a source
// checkout can be used as --installation-dir during development.
package assets

import "embed"

// ConfigFile is the embedded default configuration path within Files.
const ConfigFile = "eva.yml"

// Files holds the packaged default configuration.
//
//go:embed eva.yml
var Files embed.FS
