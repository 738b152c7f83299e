package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
)

func TestNewObservedLogger_FollowsLevels(t *testing.T) {
	levels := logging.NewLevelController(logging.LevelWarn)
	logger, logs := NewObservedLogger(levels)

	logger.Info("hidden")
	logger.Warn("shown")
	levels.SetLevel(logging.LevelDebug)
	logger.Debug("now shown")

	assert.Equal(t, []string{"shown", "now shown"}, Messages(logs))
}

func TestWriteInstallation(t *testing.T) {
	dir := WriteInstallation(t, MinimalConfig)

	data, err := os.ReadFile(filepath.Join(dir, "eva.yml"))
	assert.NoError(t, err)
	assert.Equal(t, MinimalConfig, string(data))
	assert.FileExists(t, filepath.Join(dir, "udfs", "ndarray", "count.yml"))
}
