package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "udp_plot.pdf", cfg.Plot.Output)
}

func TestDefaultRuns(t *testing.T) {
	runs := DefaultRuns()
	require.Len(t, runs, 4)

	var hz, windows, offsets []int
	for _, r := range runs {
		hz = append(hz, r.FrequencyHz)
		windows = append(windows, r.Window)
		offsets = append(offsets, r.Offset)
	}
	assert.Equal(t, []int{20, 200, 2000, 4000}, hz)
	assert.Equal(t, []int{10, 100, 1000, 2000}, windows)
	assert.Equal(t, []int{5, 50, 500, 1000}, offsets)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
log_level: debug
plot:
  output: out.png
  show: false
  runs:
    - frequency_hz: 100
      offset: 0
      window: 5
      x_tick_step: 1
report:
  reload_interval: 5s
  api_key: secret
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out.png", cfg.Plot.Output)
	assert.False(t, cfg.Plot.Show)
	require.Len(t, cfg.Plot.Runs, 1)
	assert.Equal(t, 100, cfg.Plot.Runs[0].FrequencyHz)
	assert.Equal(t, 5*time.Second, cfg.Report.ReloadInterval)
	assert.Equal(t, "secret", cfg.Report.APIKey)
	assert.Equal(t, 2, cfg.Plot.Line)
	assert.Equal(t, 19, cfg.Stats.LastLine)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plot:\n  runs:\n    - frequency_hz: 0\n      window: 1\n      x_tick_step: 1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("stats: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
