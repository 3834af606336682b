package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"producthub/internal/config"
	"producthub/internal/logging"
)

func TestSetup_WritesRotatingFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "producthub.log")
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	logger, err := logging.Setup(config.LogConfig{Mode: "production", File: logFile})
	require.NoError(t, err)

	zap.L().Info("catalog ready", zap.Int("products", 3))
	_ = logger.Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"catalog ready"`)
	assert.Contains(t, string(content), `"products":3`)
}

func TestSetup_Development(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	logger, err := logging.Setup(config.LogConfig{Mode: "development"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
