package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.General.EnableTimelines)
	assert.True(t, cfg.General.ResetOnPairEnd)
	assert.Equal(t, 250.0, cfg.General.TargetResolveMaxDist)
	assert.Equal(t, 50*time.Millisecond, cfg.Runtime.TickRate)
	assert.Equal(t, 0.25, cfg.Runtime.MaxDt)
	assert.Equal(t, "data/timelines.yaml", cfg.Data.TimelineFile)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodyfx.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[general]
enable_timelines = false
target_resolve_max_dist = 100.0

[runtime]
tick_rate = "16ms"
max_dt = 0.1

[logging]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.General.EnableTimelines)
	assert.Equal(t, 100.0, cfg.General.TargetResolveMaxDist)
	assert.Equal(t, 16*time.Millisecond, cfg.Runtime.TickRate)
	assert.Equal(t, 0.1, cfg.Runtime.MaxDt)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Untouched sections keep their defaults.
	assert.True(t, cfg.General.ResetOnPairEnd)
	assert.Equal(t, 1024, cfg.Runtime.TaskQueueSize)
	assert.Equal(t, "scripts", cfg.Scripting.ScriptsDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
