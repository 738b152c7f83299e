package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/evadb/internal/config"
)

// MinimalConfig is a default eva.yml with every bootstrap-owned key unset.
const MinimalConfig = `core:
  application: eva
  mode: release
  datasets_dir: ""
  catalog_database_uri: ""
executor:
  gpu_ids: [0]
server:
  host: 0.0.0.0
  port: 8803
`

// WriteInstallation lays out an installation directory in a temp dir: eva.yml
// with the given content and a udfs tree with one nested file.
func WriteInstallation(t *testing.T, evaYML string) string {
	t.Helper()
	dir := t.TempDir()
	udfs := filepath.Join(dir, config.UDFDirName)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(evaYML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(udfs, "ndarray"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(udfs, "detector.yml"), []byte("name: Detector\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(udfs, "ndarray", "count.yml"), []byte("name: Count\n"), 0o644))
	return dir
}
